package types

const (
	// ModuleName is the name of the counter module
	ModuleName = "counter"

	// CreateFunctionName is the entry function creating a shared counter object
	CreateFunctionName = "create"

	// IncreaseFunctionName is the entry function incrementing a counter object
	IncreaseFunctionName = "increase"

	// CounterStructName is the struct name of the counter object
	CounterStructName = "Counter"
)

// CounterTypeSuffix is the object type suffix of every counter object,
// whatever package published it.
const CounterTypeSuffix = "::" + ModuleName + "::" + CounterStructName

// ChainNamespace prefixes every chain identifier handed to the wallet.
const ChainNamespace = "sui"
