package operation

import (
	"encoding/json"
	"fmt"
)

const (
	kindCreateTable    = "create_table"
	kindDropTable      = "drop_table"
	kindAddColumn      = "add_column"
	kindDropColumn     = "drop_column"
	kindAlterColumn    = "alter_column"
	kindAddIndex       = "add_index"
	kindDropIndex      = "drop_index"
	kindAddConstraint  = "add_constraint"
	kindDropConstraint = "drop_constraint"
)

type envelope struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// MarshalList encodes operations as a tagged list so a migration can be
// persisted and decoded back into the same variants.
func MarshalList(ops []Operation) ([]byte, error) {
	envelopes := make([]envelope, 0, len(ops))
	for _, op := range ops {
		data, err := json.Marshal(op)
		if err != nil {
			return nil, err
		}
		envelopes = append(envelopes, envelope{Kind: kindOf(op), Data: data})
	}
	return json.Marshal(envelopes)
}

// UnmarshalList decodes a tagged operation list produced by MarshalList.
func UnmarshalList(data []byte) ([]Operation, error) {
	var envelopes []envelope
	if err := json.Unmarshal(data, &envelopes); err != nil {
		return nil, err
	}
	ops := make([]Operation, 0, len(envelopes))
	for _, env := range envelopes {
		op, err := decodeOne(env)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func kindOf(op Operation) string {
	switch op.(type) {
	case CreateTable:
		return kindCreateTable
	case DropTable:
		return kindDropTable
	case AddColumn:
		return kindAddColumn
	case DropColumn:
		return kindDropColumn
	case AlterColumn:
		return kindAlterColumn
	case AddIndex:
		return kindAddIndex
	case DropIndex:
		return kindDropIndex
	case AddConstraint:
		return kindAddConstraint
	case DropConstraint:
		return kindDropConstraint
	default:
		panic(fmt.Sprintf("operation: unknown variant %T", op))
	}
}

func decodeOne(env envelope) (Operation, error) {
	switch env.Kind {
	case kindCreateTable:
		var op CreateTable
		return op, json.Unmarshal(env.Data, &op)
	case kindDropTable:
		var op DropTable
		return op, json.Unmarshal(env.Data, &op)
	case kindAddColumn:
		var op AddColumn
		return op, json.Unmarshal(env.Data, &op)
	case kindDropColumn:
		var op DropColumn
		return op, json.Unmarshal(env.Data, &op)
	case kindAlterColumn:
		var op AlterColumn
		return op, json.Unmarshal(env.Data, &op)
	case kindAddIndex:
		var op AddIndex
		return op, json.Unmarshal(env.Data, &op)
	case kindDropIndex:
		var op DropIndex
		return op, json.Unmarshal(env.Data, &op)
	case kindAddConstraint:
		var op AddConstraint
		return op, json.Unmarshal(env.Data, &op)
	case kindDropConstraint:
		var op DropConstraint
		return op, json.Unmarshal(env.Data, &op)
	default:
		return nil, fmt.Errorf("unknown operation kind %q", env.Kind)
	}
}
