// Package cf holds CF-1.12 single-trajectory datasets in memory and moves
// them to and from NetCDF4 files.
package cf

import (
	"fmt"
	"slices"

	"github.com/spf13/cast"

	"github.com/uferreira/cnv2netcdf/utils"
)

const (
	TRAJECTORY_DIM = "trajectory"
	OBS_DIM        = "obs"
	STRLEN_DIM     = "name_strlen"
)

type Dim struct {
	Name string
	Len  int
}

type Attr struct {
	Name string
	// One of string, float64, []float64, int8, []int8, int16, []int16,
	// int32, []int32, int64, []int64, float32, []float32
	Value any
}

// Ordered attribute list. Order is kept so files round trip unchanged.
type Attributes []Attr

func (a Attributes) Get(name string) (any, bool) {
	for _, attr := range a {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return nil, false
}

// Replaces the attribute if it exists, otherwise appends it
func (a *Attributes) Set(name string, value any) {
	for i := range *a {
		if (*a)[i].Name == name {
			(*a)[i].Value = value
			return
		}
	}
	*a = append(*a, Attr{Name: name, Value: value})
}

func (a Attributes) String(name string) string {
	value, ok := a.Get(name)
	if !ok {
		return ""
	}
	return cast.ToString(value)
}

func (a Attributes) Float64(name string) (float64, error) {
	value, ok := a.Get(name)
	if !ok {
		return 0, fmt.Errorf("attribute '%s' not found", name)
	}
	return cast.ToFloat64E(value)
}

func (a Attributes) Ints(name string) ([]int, error) {
	value, ok := a.Get(name)
	if !ok {
		return nil, fmt.Errorf("attribute '%s' not found", name)
	}
	return cast.ToIntSliceE(value)
}

// Exactly one of the payload slices is set, matching the NetCDF type of the variable
type Variable struct {
	Name     string
	Dims     []string
	Attrs    Attributes
	Float64s []float64 // NC_DOUBLE
	Int8s    []int8    // NC_BYTE
	Chars    []byte    // NC_CHAR
}

func (v *Variable) Len() int {
	switch {
	case v.Int8s != nil:
		return len(v.Int8s)
	case v.Chars != nil:
		return len(v.Chars)
	default:
		return len(v.Float64s)
	}
}

type Dataset struct {
	Dims  []Dim
	Vars  []*Variable
	Attrs Attributes
}

// Creates an empty single-trajectory dataset with `n` observations
func NewTrajectory(n int) *Dataset {
	return &Dataset{
		Dims: []Dim{{TRAJECTORY_DIM, 1}, {OBS_DIM, n}},
	}
}

func (ds *Dataset) Dim(name string) (Dim, bool) {
	for _, d := range ds.Dims {
		if d.Name == name {
			return d, true
		}
	}
	return Dim{}, false
}

// Adds the dimension or updates its length
func (ds *Dataset) SetDim(name string, n int) {
	for i := range ds.Dims {
		if ds.Dims[i].Name == name {
			ds.Dims[i].Len = n
			return
		}
	}
	ds.Dims = append(ds.Dims, Dim{name, n})
}

// Number of observations along the `obs` dimension
func (ds *Dataset) Len() int {
	d, _ := ds.Dim(OBS_DIM)
	return d.Len
}

func (ds *Dataset) Var(name string) (*Variable, bool) {
	for _, v := range ds.Vars {
		if v.Name == name {
			return v, true
		}
	}
	return nil, false
}

// Adds `v`, replacing any existing variable with the same name in place
func (ds *Dataset) Put(v *Variable) {
	for i := range ds.Vars {
		if ds.Vars[i].Name == v.Name {
			ds.Vars[i] = v
			return
		}
	}
	ds.Vars = append(ds.Vars, v)
}

func (ds *Dataset) VarNames() []string {
	names := make([]string, len(ds.Vars))
	for i, v := range ds.Vars {
		names[i] = v.Name
	}
	return names
}

// Returns the first existing variable among `names`
func (ds *Dataset) FirstVar(names ...string) (*Variable, bool) {
	for _, name := range names {
		if v, ok := ds.Var(name); ok {
			return v, true
		}
	}
	return nil, false
}

// Values of the first (and only) trajectory of a numeric variable
func (ds *Dataset) Series(name string) ([]float64, error) {
	v, ok := ds.Var(name)
	if !ok {
		return nil, fmt.Errorf("variable '%s' not found", name)
	}

	n := ds.Len()
	if !slices.Contains(v.Dims, OBS_DIM) || v.Len() < n {
		return nil, fmt.Errorf("variable '%s' is not defined along '%s'", name, OBS_DIM)
	}

	out := make([]float64, n)
	switch {
	case v.Int8s != nil:
		for i := range out {
			out[i] = float64(v.Int8s[i])
		}
	case v.Float64s != nil:
		copy(out, v.Float64s[:n])
	default:
		return nil, fmt.Errorf("variable '%s' is not numeric", name)
	}
	return out, nil
}

// Values of a time variable in seconds since epoch, converted using its
// `units` attribute. Values without units are taken as epoch seconds.
func (ds *Dataset) EpochSeconds(name string) ([]float64, error) {
	values, err := ds.Series(name)
	if err != nil {
		return nil, err
	}

	v, _ := ds.Var(name)
	units := v.Attrs.String("units")
	if units == "" || units == utils.EPOCH_UNITS {
		return values, nil
	}

	seconds, err := utils.ToEpochSecondsFrom(values, units)
	if err != nil {
		return nil, fmt.Errorf("variable '%s': %w", name, err)
	}
	return seconds, nil
}

// Appends a line to the `history` global attribute
func (ds *Dataset) AppendHistory(line string) {
	if history := ds.Attrs.String("history"); history != "" {
		line = history + "\n" + line
	}
	ds.Attrs.Set("history", line)
}
