package testutil

import (
	"fmt"

	"github.com/aptos-labs/serde-reflection/serde-generate/runtime/golang/bcs"
	"github.com/aptos-labs/serde-reflection/serde-generate/runtime/golang/serde"

	"github.com/initia-labs/counterd/x/counter/types"
)

// TransactionDataFor returns the transaction a node builds for call: one
// input per argument, in order, and a single move call using them.
func TransactionDataFor(sender types.Address, call types.CallDescriptor, gasBudget uint64) types.TransactionData {
	senderBz, err := sender.Bytes()
	if err != nil {
		panic(err)
	}
	pkg, err := call.Target.Package.Bytes()
	if err != nil {
		panic(err)
	}

	tx := types.TransactionData{
		Sender:    senderBz,
		GasOwner:  senderBz,
		GasPrice:  1000,
		GasBudget: gasBudget,
		Commands: []types.TxMoveCall{{
			Package:  pkg,
			Module:   call.Target.Module,
			Function: call.Target.Function,
		}},
	}

	for i, arg := range call.Arguments {
		input := types.TxInput{Kind: arg.Kind, Pure: arg.BCS}
		if arg.Kind == types.ArgumentObject {
			if input.Object, err = arg.Object.Bytes(); err != nil {
				panic(err)
			}
		}

		tx.Inputs = append(tx.Inputs, input)
		tx.Commands[0].Arguments = append(tx.Commands[0].Arguments, types.TxArgument{Kind: types.TxArgInput, Index: uint16(i)})
	}

	return tx
}

// EncodeTransactionData returns the BCS encoding of tx. Object inputs are
// written as mutable shared objects and the gas is paid with one coin.
func EncodeTransactionData(tx types.TransactionData) ([]byte, error) {
	s := bcs.NewSerializer()

	steps := []func() error{
		func() error { return s.SerializeVariantIndex(types.TxDataV1) },
		func() error { return s.SerializeVariantIndex(types.TxKindProgrammable) },
		func() error { return encodeInputs(s, tx.Inputs) },
		func() error { return encodeCommands(s, tx.Commands) },
		func() error { return encodeFixed(s, tx.Sender) },
		// gas payment
		func() error { return s.SerializeLen(1) },
		func() error { return encodeFixed(s, make([]byte, types.AddressBytesLength)) },
		func() error { return s.SerializeU64(1) },
		func() error { return s.SerializeBytes(make([]byte, 32)) },
		func() error { return encodeFixed(s, tx.GasOwner) },
		func() error { return s.SerializeU64(tx.GasPrice) },
		func() error { return s.SerializeU64(tx.GasBudget) },
		func() error { return s.SerializeVariantIndex(types.TxExpirationNone) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}

	return s.GetBytes(), nil
}

func encodeFixed(s serde.Serializer, bz []byte) error {
	if len(bz) != types.AddressBytesLength {
		return fmt.Errorf("expected %d bytes, got %d", types.AddressBytesLength, len(bz))
	}

	for _, b := range bz {
		if err := s.SerializeU8(b); err != nil {
			return err
		}
	}

	return nil
}

func encodeInputs(s serde.Serializer, inputs []types.TxInput) error {
	if err := s.SerializeLen(uint64(len(inputs))); err != nil {
		return err
	}

	for _, input := range inputs {
		if input.Kind == types.ArgumentPure {
			if err := s.SerializeVariantIndex(types.TxCallArgPure); err != nil {
				return err
			}
			if err := s.SerializeBytes(input.Pure); err != nil {
				return err
			}
			continue
		}

		if err := s.SerializeVariantIndex(types.TxCallArgObject); err != nil {
			return err
		}
		if err := s.SerializeVariantIndex(types.TxObjectShared); err != nil {
			return err
		}
		if err := encodeFixed(s, input.Object); err != nil {
			return err
		}
		if err := s.SerializeU64(1); err != nil {
			return err
		}
		if err := s.SerializeBool(true); err != nil {
			return err
		}
	}

	return nil
}

func encodeCommands(s serde.Serializer, calls []types.TxMoveCall) error {
	if err := s.SerializeLen(uint64(len(calls))); err != nil {
		return err
	}

	for _, call := range calls {
		if len(call.TypeArgs) != 0 {
			return fmt.Errorf("type arguments are not supported")
		}

		if err := s.SerializeVariantIndex(types.TxCommandMoveCall); err != nil {
			return err
		}
		if err := encodeFixed(s, call.Package); err != nil {
			return err
		}
		if err := s.SerializeStr(call.Module); err != nil {
			return err
		}
		if err := s.SerializeStr(call.Function); err != nil {
			return err
		}
		if err := s.SerializeLen(0); err != nil {
			return err
		}
		if err := s.SerializeLen(uint64(len(call.Arguments))); err != nil {
			return err
		}

		for _, arg := range call.Arguments {
			if err := s.SerializeVariantIndex(arg.Kind); err != nil {
				return err
			}
			switch arg.Kind {
			case types.TxArgInput, types.TxArgResult:
				if err := s.SerializeU16(arg.Index); err != nil {
					return err
				}
			case types.TxArgNestedResult:
				if err := s.SerializeU16(arg.Index); err != nil {
					return err
				}
				if err := s.SerializeU16(arg.NestedIndex); err != nil {
					return err
				}
			}
		}
	}

	return nil
}
