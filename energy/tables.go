package energy

import (
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default_tables.yaml
var defaultTablesYAML []byte

// ArchTables holds the power and latency tables and the cost parameters of
// one architecture.
type ArchTables struct {
	Power   Table
	Latency Table
	Params  ArchParams
}

// Tables holds the tables of both architectures.
type Tables struct {
	Reference ArchTables
	Target    ArchTables
}

type archTablesFile struct {
	Power   map[uint64]float64 `yaml:"power"`
	Latency map[uint64]float64 `yaml:"latency"`
	Params  ArchParams         `yaml:"params"`
}

type tablesFile struct {
	Reference archTablesFile `yaml:"reference"`
	Target    archTablesFile `yaml:"target"`
}

// DefaultTables returns the tables compiled into the binary.
func DefaultTables() Tables {
	t, err := parseTables(defaultTablesYAML)
	if err != nil {
		panic(err)
	}

	return t
}

// LoadTables reads tables in YAML format. Each architecture may also carry a
// params section. Parameters that are not given keep their default values.
func LoadTables(r io.Reader) (Tables, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Tables{}, err
	}

	return parseTables(data)
}

// LoadTablesFile reads tables from a YAML file.
func LoadTablesFile(path string) (Tables, error) {
	f, err := os.Open(path)
	if err != nil {
		return Tables{}, err
	}
	defer f.Close()

	return LoadTables(f)
}

func parseTables(data []byte) (Tables, error) {
	file := tablesFile{
		Reference: archTablesFile{Params: DefaultReferenceParams()},
		Target:    archTablesFile{Params: DefaultTargetParams()},
	}

	err := yaml.Unmarshal(data, &file)
	if err != nil {
		return Tables{}, fmt.Errorf("parsing power/latency tables: %w", err)
	}

	return Tables{
		Reference: file.Reference.toArchTables("reference"),
		Target:    file.Target.toArchTables("target"),
	}, nil
}

func (f archTablesFile) toArchTables(arch string) ArchTables {
	return ArchTables{
		Power:   NewTable(arch+" power", "W", f.Power),
		Latency: NewTable(arch+" latency", "ns", f.Latency),
		Params:  f.Params,
	}
}

// Write prints the tables followed by the parameters.
func (t Tables) Write(w io.Writer) error {
	for _, table := range []Table{
		t.Reference.Power, t.Reference.Latency,
		t.Target.Power, t.Target.Latency,
	} {
		_, err := fmt.Fprintf(w, "%s (%s)\n", table.Name(), table.Unit())
		if err != nil {
			return err
		}

		for _, size := range table.Sizes() {
			value, _ := table.Lookup(size)

			_, err = fmt.Fprintf(w, "  %6d B  %g\n", size, value)
			if err != nil {
				return err
			}
		}
	}

	err := t.Reference.Params.write(w)
	if err != nil {
		return err
	}

	return t.Target.Params.write(w)
}
