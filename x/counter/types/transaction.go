package types

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/aptos-labs/serde-reflection/serde-generate/runtime/golang/bcs"
	"github.com/aptos-labs/serde-reflection/serde-generate/runtime/golang/serde"
)

// Variant indexes of the node's BCS transaction encoding.
const (
	TxDataV1               = 0
	TxKindProgrammable     = 0
	TxCallArgPure          = 0
	TxCallArgObject        = 1
	TxObjectImmOrOwned     = 0
	TxObjectShared         = 1
	TxObjectReceiving      = 2
	TxCommandMoveCall      = 0
	TxArgGasCoin           = 0
	TxArgInput             = 1
	TxArgResult            = 2
	TxArgNestedResult      = 3
	TxExpirationNone       = 0
	TxExpirationEpoch      = 1
	txTypeTagVector        = 6
	txTypeTagStruct        = 7
	txTypeTagLastPrimitive = 10
)

var primitiveTypeTags = []string{"bool", "u8", "u64", "u128", "address", "signer", "", "", "u16", "u32", "u256"}

// TxInput is one input of a programmable transaction. Object inputs keep
// their id only.
type TxInput struct {
	Kind   ArgumentKind
	Pure   []byte
	Object []byte
}

// TxArgument refers to an input, the gas coin or the result of a command.
type TxArgument struct {
	Kind        uint32
	Index       uint16
	NestedIndex uint16
}

// TxMoveCall is a move call command of a programmable transaction.
type TxMoveCall struct {
	Package   []byte
	Module    string
	Function  string
	TypeArgs  []string
	Arguments []TxArgument
}

// TransactionData is the decoded form of the unsigned transaction bytes
// built by the node, reduced to what a wallet checks before signing.
type TransactionData struct {
	Sender    []byte
	Inputs    []TxInput
	Commands  []TxMoveCall
	GasOwner  []byte
	GasPrice  uint64
	GasBudget uint64
}

// DecodeTransactionData decodes BCS encoded transaction data. Only
// programmable transactions made of move calls are accepted.
func DecodeTransactionData(bz []byte) (TransactionData, error) {
	d := bcs.NewDeserializer(bz)

	var tx TransactionData
	if err := expectVariant(d, "transaction data", TxDataV1); err != nil {
		return tx, err
	}
	if err := expectVariant(d, "transaction kind", TxKindProgrammable); err != nil {
		return tx, err
	}

	n, err := d.DeserializeLen()
	if err != nil {
		return tx, err
	}
	for i := uint64(0); i < n; i++ {
		input, err := decodeInput(d)
		if err != nil {
			return tx, fmt.Errorf("input %d: %w", i, err)
		}
		tx.Inputs = append(tx.Inputs, input)
	}

	if n, err = d.DeserializeLen(); err != nil {
		return tx, err
	}
	for i := uint64(0); i < n; i++ {
		call, err := decodeMoveCall(d)
		if err != nil {
			return tx, fmt.Errorf("command %d: %w", i, err)
		}
		tx.Commands = append(tx.Commands, call)
	}

	if tx.Sender, err = decodeFixedBytes(d, AddressBytesLength); err != nil {
		return tx, err
	}

	// gas payment
	if n, err = d.DeserializeLen(); err != nil {
		return tx, err
	}
	for i := uint64(0); i < n; i++ {
		if _, err := decodeObjectRef(d); err != nil {
			return tx, fmt.Errorf("gas payment %d: %w", i, err)
		}
	}
	if tx.GasOwner, err = decodeFixedBytes(d, AddressBytesLength); err != nil {
		return tx, err
	}
	if tx.GasPrice, err = d.DeserializeU64(); err != nil {
		return tx, err
	}
	if tx.GasBudget, err = d.DeserializeU64(); err != nil {
		return tx, err
	}

	expiration, err := d.DeserializeVariantIndex()
	if err != nil {
		return tx, err
	}
	switch expiration {
	case TxExpirationNone:
	case TxExpirationEpoch:
		if _, err := d.DeserializeU64(); err != nil {
			return tx, err
		}
	default:
		return tx, fmt.Errorf("unsupported transaction expiration %d", expiration)
	}

	if off := d.GetBufferOffset(); off != uint64(len(bz)) {
		return tx, fmt.Errorf("%d trailing bytes after transaction data", uint64(len(bz))-off)
	}

	return tx, nil
}

func expectVariant(d serde.Deserializer, what string, want uint32) error {
	got, err := d.DeserializeVariantIndex()
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("unsupported %s variant %d", what, got)
	}

	return nil
}

func decodeFixedBytes(d serde.Deserializer, n int) ([]byte, error) {
	out := make([]byte, n)
	for i := range out {
		b, err := d.DeserializeU8()
		if err != nil {
			return nil, err
		}
		out[i] = b
	}

	return out, nil
}

// decodeObjectRef reads (id, version, digest) and returns the id.
func decodeObjectRef(d serde.Deserializer) ([]byte, error) {
	id, err := decodeFixedBytes(d, AddressBytesLength)
	if err != nil {
		return nil, err
	}
	if _, err := d.DeserializeU64(); err != nil {
		return nil, err
	}
	if _, err := d.DeserializeBytes(); err != nil {
		return nil, err
	}

	return id, nil
}

func decodeInput(d serde.Deserializer) (TxInput, error) {
	kind, err := d.DeserializeVariantIndex()
	if err != nil {
		return TxInput{}, err
	}

	switch kind {
	case TxCallArgPure:
		bz, err := d.DeserializeBytes()
		if err != nil {
			return TxInput{}, err
		}
		return TxInput{Kind: ArgumentPure, Pure: bz}, nil
	case TxCallArgObject:
		objKind, err := d.DeserializeVariantIndex()
		if err != nil {
			return TxInput{}, err
		}

		var id []byte
		switch objKind {
		case TxObjectImmOrOwned, TxObjectReceiving:
			id, err = decodeObjectRef(d)
		case TxObjectShared:
			if id, err = decodeFixedBytes(d, AddressBytesLength); err != nil {
				return TxInput{}, err
			}
			if _, err = d.DeserializeU64(); err != nil {
				return TxInput{}, err
			}
			_, err = d.DeserializeBool()
		default:
			return TxInput{}, fmt.Errorf("unsupported object argument %d", objKind)
		}
		if err != nil {
			return TxInput{}, err
		}
		return TxInput{Kind: ArgumentObject, Object: id}, nil
	default:
		return TxInput{}, fmt.Errorf("unsupported call argument %d", kind)
	}
}

func decodeMoveCall(d serde.Deserializer) (TxMoveCall, error) {
	if err := expectVariant(d, "command", TxCommandMoveCall); err != nil {
		return TxMoveCall{}, err
	}

	var (
		call TxMoveCall
		err  error
	)
	if call.Package, err = decodeFixedBytes(d, AddressBytesLength); err != nil {
		return call, err
	}
	if call.Module, err = d.DeserializeStr(); err != nil {
		return call, err
	}
	if call.Function, err = d.DeserializeStr(); err != nil {
		return call, err
	}

	n, err := d.DeserializeLen()
	if err != nil {
		return call, err
	}
	for i := uint64(0); i < n; i++ {
		tag, err := decodeTypeTag(d)
		if err != nil {
			return call, err
		}
		call.TypeArgs = append(call.TypeArgs, tag)
	}

	if n, err = d.DeserializeLen(); err != nil {
		return call, err
	}
	for i := uint64(0); i < n; i++ {
		arg, err := decodeArgument(d)
		if err != nil {
			return call, err
		}
		call.Arguments = append(call.Arguments, arg)
	}

	return call, nil
}

func decodeTypeTag(d serde.Deserializer) (string, error) {
	if err := d.IncreaseContainerDepth(); err != nil {
		return "", err
	}
	defer d.DecreaseContainerDepth()

	kind, err := d.DeserializeVariantIndex()
	if err != nil {
		return "", err
	}

	switch {
	case kind == txTypeTagVector:
		inner, err := decodeTypeTag(d)
		if err != nil {
			return "", err
		}
		return "vector<" + inner + ">", nil
	case kind == txTypeTagStruct:
		addr, err := decodeFixedBytes(d, AddressBytesLength)
		if err != nil {
			return "", err
		}
		module, err := d.DeserializeStr()
		if err != nil {
			return "", err
		}
		name, err := d.DeserializeStr()
		if err != nil {
			return "", err
		}

		n, err := d.DeserializeLen()
		if err != nil {
			return "", err
		}
		params := make([]string, 0, n)
		for i := uint64(0); i < n; i++ {
			p, err := decodeTypeTag(d)
			if err != nil {
				return "", err
			}
			params = append(params, p)
		}

		tag := fmt.Sprintf("%s::%s::%s", NewAddressFromBytes(addr), module, name)
		if len(params) > 0 {
			tag += "<" + strings.Join(params, ", ") + ">"
		}
		return tag, nil
	case kind <= txTypeTagLastPrimitive:
		return primitiveTypeTags[kind], nil
	default:
		return "", fmt.Errorf("unsupported type tag %d", kind)
	}
}

func decodeArgument(d serde.Deserializer) (TxArgument, error) {
	kind, err := d.DeserializeVariantIndex()
	if err != nil {
		return TxArgument{}, err
	}

	arg := TxArgument{Kind: kind}
	switch kind {
	case TxArgGasCoin:
	case TxArgInput, TxArgResult:
		arg.Index, err = d.DeserializeU16()
	case TxArgNestedResult:
		if arg.Index, err = d.DeserializeU16(); err != nil {
			return arg, err
		}
		arg.NestedIndex, err = d.DeserializeU16()
	default:
		return arg, fmt.Errorf("unsupported argument %d", kind)
	}

	return arg, err
}

// VerifyTransaction checks that tx is exactly call sent by sender: one move
// call to the same target whose arguments resolve, in order, to inputs
// carrying the same object ids and pure bytes.
func (c CallDescriptor) VerifyTransaction(sender Address, tx TransactionData) error {
	senderBz, err := sender.Bytes()
	if err != nil {
		return err
	}
	if !bytes.Equal(tx.Sender, senderBz) {
		return fmt.Errorf("sender %s, expected %s", NewAddressFromBytes(tx.Sender), sender)
	}

	if len(tx.Commands) != 1 {
		return fmt.Errorf("%d commands, expected one move call", len(tx.Commands))
	}
	cmd := tx.Commands[0]

	pkg, err := c.Target.Package.Bytes()
	if err != nil {
		return err
	}
	if !bytes.Equal(cmd.Package, pkg) || cmd.Module != c.Target.Module || cmd.Function != c.Target.Function {
		return fmt.Errorf("target %s::%s::%s, expected %s", NewAddressFromBytes(cmd.Package), cmd.Module, cmd.Function, c.Target)
	}
	if len(cmd.TypeArgs) != len(c.TypeArgs) {
		return fmt.Errorf("%d type arguments, expected %d", len(cmd.TypeArgs), len(c.TypeArgs))
	}
	if len(cmd.Arguments) != len(c.Arguments) {
		return fmt.Errorf("%d arguments, expected %d", len(cmd.Arguments), len(c.Arguments))
	}

	for i, want := range c.Arguments {
		arg := cmd.Arguments[i]
		if arg.Kind != TxArgInput || int(arg.Index) >= len(tx.Inputs) {
			return fmt.Errorf("argument %d does not refer to an input", i)
		}

		input := tx.Inputs[arg.Index]
		if input.Kind != want.Kind {
			return fmt.Errorf("argument %d is %s, expected %s", i, input.Kind, want.Kind)
		}

		switch want.Kind {
		case ArgumentPure:
			if !bytes.Equal(input.Pure, want.BCS) {
				return fmt.Errorf("argument %d is %x, expected %x", i, input.Pure, want.BCS)
			}
		case ArgumentObject:
			id, err := want.Object.Bytes()
			if err != nil {
				return err
			}
			if !bytes.Equal(input.Object, id) {
				return fmt.Errorf("argument %d is object %s, expected %s", i, NewAddressFromBytes(input.Object), want.Object)
			}
		}
	}

	return nil
}
