package types

import (
	"fmt"
	"strconv"

	"github.com/aptos-labs/serde-reflection/serde-generate/runtime/golang/bcs"
)

// ArgumentKind tells how an entry function argument is passed.
type ArgumentKind uint8

const (
	// ArgumentPure is a BCS encoded value
	ArgumentPure ArgumentKind = iota
	// ArgumentObject is a reference to an on-chain object
	ArgumentObject
)

// String implements fmt.Stringer.
func (k ArgumentKind) String() string {
	switch k {
	case ArgumentPure:
		return "pure"
	case ArgumentObject:
		return "object"
	default:
		return fmt.Sprintf("ArgumentKind(%d)", uint8(k))
	}
}

// CallArgument is one ordered argument of a CallDescriptor.
type CallArgument struct {
	Kind ArgumentKind

	// pure arguments
	Type  string
	Value uint64
	BCS   []byte

	// object arguments
	Object Address
}

// PureU64 returns a pure u64 argument together with its BCS encoding.
func PureU64(v uint64) CallArgument {
	s := bcs.NewSerializer()
	if err := s.SerializeU64(v); err != nil {
		// the serializer writes to a bytes.Buffer
		panic(err)
	}

	return CallArgument{
		Kind:  ArgumentPure,
		Type:  "u64",
		Value: v,
		BCS:   s.GetBytes(),
	}
}

// ObjectRef returns an argument referencing the object id.
func ObjectRef(id Address) CallArgument {
	return CallArgument{
		Kind:   ArgumentObject,
		Object: id,
	}
}

// JSONValue returns the argument in the form accepted by the node's
// transaction builder: u64 values as decimal strings, objects as ids.
func (a CallArgument) JSONValue() any {
	if a.Kind == ArgumentObject {
		return a.Object.String()
	}

	return strconv.FormatUint(a.Value, 10)
}

// String implements fmt.Stringer.
func (a CallArgument) String() string {
	if a.Kind == ArgumentObject {
		return "object:" + a.Object.String()
	}

	return a.Type + ":" + strconv.FormatUint(a.Value, 10)
}

// MoveCallTarget is the package::module::function triple of an entry function.
type MoveCallTarget struct {
	Package  Address
	Module   string
	Function string
}

// String implements fmt.Stringer.
func (t MoveCallTarget) String() string {
	return fmt.Sprintf("%s::%s::%s", t.Package, t.Module, t.Function)
}

// CallDescriptor is an unsigned description of one entry function invocation.
type CallDescriptor struct {
	Target    MoveCallTarget
	TypeArgs  []string
	Arguments []CallArgument
}

// JSONArguments returns the arguments in node transaction builder form.
func (c CallDescriptor) JSONArguments() []any {
	args := make([]any, len(c.Arguments))
	for i, arg := range c.Arguments {
		args[i] = arg.JSONValue()
	}

	return args
}

// NewCreateCall builds a call to <package>::counter::create(initValue).
func NewCreateCall(packageID Address, initValue uint64) CallDescriptor {
	return CallDescriptor{
		Target: MoveCallTarget{
			Package:  packageID,
			Module:   ModuleName,
			Function: CreateFunctionName,
		},
		TypeArgs:  []string{},
		Arguments: []CallArgument{PureU64(initValue)},
	}
}

// NewIncreaseCall builds a call to <package>::counter::increase(counter, amount).
func NewIncreaseCall(packageID, counterID Address, amount uint64) CallDescriptor {
	return CallDescriptor{
		Target: MoveCallTarget{
			Package:  packageID,
			Module:   ModuleName,
			Function: IncreaseFunctionName,
		},
		TypeArgs:  []string{},
		Arguments: []CallArgument{ObjectRef(counterID), PureU64(amount)},
	}
}
