package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

type schemaFile struct {
	Tables []tableFile `yaml:"tables"`
}

type tableFile struct {
	Name        string       `yaml:"name"`
	Columns     []Column     `yaml:"columns"`
	PrimaryKey  []string     `yaml:"primary_key"`
	Indexes     []Index      `yaml:"indexes"`
	Constraints []Constraint `yaml:"constraints"`
}

// LoadFile reads a target-schema declaration from a YAML file and builds a
// validated Schema snapshot.
func LoadFile(path string) (Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Schema{}, fmt.Errorf("read schema file: %w", err)
	}
	return Parse(data)
}

// Parse builds a validated Schema snapshot from YAML bytes.
func Parse(data []byte) (Schema, error) {
	var file schemaFile
	if err := yaml.UnmarshalStrict(data, &file); err != nil {
		return Schema{}, fmt.Errorf("parse schema file: %w", err)
	}

	tables := make([]Table, 0, len(file.Tables))
	for _, tf := range file.Tables {
		t, err := NewTableWithPrimaryKey(tf.Name, tf.Columns, tf.PrimaryKey)
		if err != nil {
			return Schema{}, err
		}
		if len(tf.Indexes) > 0 {
			if t, err = t.WithIndexes(tf.Indexes...); err != nil {
				return Schema{}, err
			}
		}
		if len(tf.Constraints) > 0 {
			if t, err = t.WithConstraints(tf.Constraints...); err != nil {
				return Schema{}, err
			}
		}
		tables = append(tables, t)
	}
	return New(tables...), nil
}
