package roadmodel

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Map is the on-disk description of a road network. Coordinates are in metres
// on a local planar projection.
type Map struct {
	Nodes []MapNode `yaml:"nodes" validate:"required,min=1,dive"`
	Roads []Road    `yaml:"roads" validate:"dive"`
}

// MapNode is a point of the network.
type MapNode struct {
	ID int     `yaml:"id"`
	X  float64 `yaml:"x"`
	Y  float64 `yaml:"y"`
}

// Road is an ordered way through the listed node ids. Consecutive ids are
// connected in both directions.
type Road struct {
	Name  string `yaml:"name"`
	Type  string `yaml:"type"`
	Nodes []int  `yaml:"nodes" validate:"required,min=2"`
}

// Load reads and parses a YAML map file.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read map %s: %w", path, err)
	}
	return Parse(data)
}

// Parse builds a model from YAML map data.
func Parse(data []byte) (*Model, error) {
	var m Map
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMap, err)
	}
	return New(m)
}

// Validate checks struct constraints, finite coordinates, id uniqueness and
// that every road refers to known nodes.
func (m Map) Validate() error {
	if err := validate.Struct(m); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidMap, formatValidationError(err))
	}

	ids := make(map[int]struct{}, len(m.Nodes))
	for _, node := range m.Nodes {
		if _, dup := ids[node.ID]; dup {
			return fmt.Errorf("%w: duplicate node id %d", ErrInvalidMap, node.ID)
		}
		if !finite(node.X) || !finite(node.Y) {
			return fmt.Errorf("%w: node %d has non-finite coordinates (%v, %v)", ErrInvalidMap, node.ID, node.X, node.Y)
		}
		ids[node.ID] = struct{}{}
	}
	for i, road := range m.Roads {
		for _, id := range road.Nodes {
			if _, ok := ids[id]; !ok {
				return fmt.Errorf("%w: road %d (%s) references unknown node %d", ErrInvalidMap, i, road.Name, id)
			}
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func formatValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return err.Error()
	}
	e := validationErrs[0]
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s: field is required", e.Namespace())
	case "min":
		return fmt.Sprintf("%s: must have at least %s entries", e.Namespace(), e.Param())
	default:
		return fmt.Sprintf("%s: validation failed (%s)", e.Namespace(), e.Tag())
	}
}
