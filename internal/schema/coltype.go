package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// TypeKind identifies a logical column type, independent of any backend.
type TypeKind string

const (
	KindInteger    TypeKind = "integer"
	KindBigInteger TypeKind = "bigint"
	KindVarChar    TypeKind = "varchar"
	KindText       TypeKind = "text"
	KindDecimal    TypeKind = "decimal"
	KindFloat      TypeKind = "float"
	KindBoolean    TypeKind = "boolean"
	KindDate       TypeKind = "date"
	KindDateTime   TypeKind = "datetime"
)

// ColumnType is a logical data type. Size applies to varchar, Precision and
// Scale to decimal; they are zero otherwise.
type ColumnType struct {
	Kind      TypeKind
	Size      int
	Precision int
	Scale     int
}

func Integer() ColumnType    { return ColumnType{Kind: KindInteger} }
func BigInteger() ColumnType { return ColumnType{Kind: KindBigInteger} }
func Text() ColumnType       { return ColumnType{Kind: KindText} }
func Float() ColumnType      { return ColumnType{Kind: KindFloat} }
func Boolean() ColumnType    { return ColumnType{Kind: KindBoolean} }
func Date() ColumnType       { return ColumnType{Kind: KindDate} }
func DateTime() ColumnType   { return ColumnType{Kind: KindDateTime} }

func VarChar(size int) ColumnType {
	return ColumnType{Kind: KindVarChar, Size: size}
}

func Decimal(precision, scale int) ColumnType {
	return ColumnType{Kind: KindDecimal, Precision: precision, Scale: scale}
}

// String renders the type in the spelling ParseType accepts, e.g. "varchar(255)".
func (t ColumnType) String() string {
	switch t.Kind {
	case KindVarChar:
		return fmt.Sprintf("varchar(%d)", t.Size)
	case KindDecimal:
		return fmt.Sprintf("decimal(%d,%d)", t.Precision, t.Scale)
	default:
		return string(t.Kind)
	}
}

// ParseType parses a logical type spelling such as "integer", "varchar(255)"
// or "decimal(10,2)".
func ParseType(s string) (ColumnType, error) {
	raw := strings.ToLower(strings.TrimSpace(s))
	base := raw
	var args []string
	if open := strings.Index(raw, "("); open >= 0 {
		if !strings.HasSuffix(raw, ")") {
			return ColumnType{}, fmt.Errorf("malformed type %q", s)
		}
		base = strings.TrimSpace(raw[:open])
		for _, a := range strings.Split(raw[open+1:len(raw)-1], ",") {
			args = append(args, strings.TrimSpace(a))
		}
	}

	switch base {
	case "integer", "int":
		return Integer(), nil
	case "bigint", "biginteger":
		return BigInteger(), nil
	case "text":
		return Text(), nil
	case "float", "double":
		return Float(), nil
	case "boolean", "bool":
		return Boolean(), nil
	case "date":
		return Date(), nil
	case "datetime", "timestamp":
		return DateTime(), nil
	case "varchar", "character varying":
		if len(args) != 1 {
			return ColumnType{}, fmt.Errorf("varchar requires a size: %q", s)
		}
		size, err := strconv.Atoi(args[0])
		if err != nil || size <= 0 {
			return ColumnType{}, fmt.Errorf("invalid varchar size in %q", s)
		}
		return VarChar(size), nil
	case "decimal", "numeric":
		if len(args) != 2 {
			return ColumnType{}, fmt.Errorf("decimal requires precision and scale: %q", s)
		}
		precision, err := strconv.Atoi(args[0])
		if err != nil || precision <= 0 {
			return ColumnType{}, fmt.Errorf("invalid decimal precision in %q", s)
		}
		scale, err := strconv.Atoi(args[1])
		if err != nil || scale < 0 {
			return ColumnType{}, fmt.Errorf("invalid decimal scale in %q", s)
		}
		return Decimal(precision, scale), nil
	default:
		return ColumnType{}, fmt.Errorf("unknown column type %q", s)
	}
}

// MarshalYAML / UnmarshalYAML keep schema files readable ("varchar(255)").
func (t ColumnType) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}

func (t *ColumnType) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := ParseType(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t ColumnType) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(t.String())), nil
}

func (t *ColumnType) UnmarshalJSON(data []byte) error {
	raw, err := strconv.Unquote(string(data))
	if err != nil {
		return err
	}
	parsed, err := ParseType(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
