package cf

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/fhs/go-netcdf/netcdf"
)

// Returned for NetCDF types the dataset model has no room for
var errSkipped = errors.New("skipped")

// Writes the dataset to a NetCDF4 file, overwriting `path` if it exists.
// A failure half way through leaves an invalid file behind.
func Write(ds *Dataset, path string) (err error) {
	nc, err := netcdf.CreateFile(path, netcdf.CLOBBER|netcdf.NETCDF4)
	if err != nil {
		return fmt.Errorf("could not create '%s': %w", path, err)
	}
	defer func() {
		if closeErr := nc.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	dims := make(map[string]netcdf.Dim, len(ds.Dims))
	for _, d := range ds.Dims {
		if d.Len == 0 {
			// A zero length is NC_UNLIMITED for the C library
			slog.Warn(fmt.Sprintf("Dimension '%s' is empty, it will be written as unlimited", d.Name))
		}
		dim, err := nc.AddDim(d.Name, uint64(d.Len))
		if err != nil {
			return fmt.Errorf("dimension '%s': %w", d.Name, err)
		}
		dims[d.Name] = dim
	}

	ncvars := make([]netcdf.Var, len(ds.Vars))
	for i, v := range ds.Vars {
		vdims := make([]netcdf.Dim, len(v.Dims))
		for j, name := range v.Dims {
			dim, ok := dims[name]
			if !ok {
				return fmt.Errorf("variable '%s' uses undefined dimension '%s'", v.Name, name)
			}
			vdims[j] = dim
		}

		ncvars[i], err = nc.AddVar(v.Name, ncType(v), vdims)
		if err != nil {
			return fmt.Errorf("variable '%s': %w", v.Name, err)
		}

		for _, attr := range v.Attrs {
			if err := writeAttr(ncvars[i].Attr(attr.Name), attr.Value); err != nil {
				return fmt.Errorf("attribute '%s:%s': %w", v.Name, attr.Name, err)
			}
		}
	}

	for _, attr := range ds.Attrs {
		if err := writeAttr(nc.Attr(attr.Name), attr.Value); err != nil {
			return fmt.Errorf("global attribute '%s': %w", attr.Name, err)
		}
	}

	if err := nc.EndDef(); err != nil {
		return err
	}

	for i, v := range ds.Vars {
		if v.Len() == 0 {
			continue
		}

		switch {
		case v.Int8s != nil:
			err = ncvars[i].WriteInt8s(v.Int8s)
		case v.Chars != nil:
			err = ncvars[i].WriteBytes(v.Chars)
		default:
			err = ncvars[i].WriteFloat64s(v.Float64s)
		}
		if err != nil {
			return fmt.Errorf("could not write '%s': %w", v.Name, err)
		}
	}

	return nil
}

func ncType(v *Variable) netcdf.Type {
	switch {
	case v.Int8s != nil:
		return netcdf.BYTE
	case v.Chars != nil:
		return netcdf.CHAR
	default:
		return netcdf.DOUBLE
	}
}

// Zero-length values are skipped, the C binding cannot write them
func writeAttr(a netcdf.Attr, value any) error {
	switch v := value.(type) {
	case string:
		if v == "" {
			return nil
		}
		return a.WriteBytes([]byte(v))
	case float64:
		return a.WriteFloat64s([]float64{v})
	case []float64:
		if len(v) == 0 {
			return nil
		}
		return a.WriteFloat64s(v)
	case float32:
		return a.WriteFloat32s([]float32{v})
	case []float32:
		if len(v) == 0 {
			return nil
		}
		return a.WriteFloat32s(v)
	case int8:
		return a.WriteInt8s([]int8{v})
	case []int8:
		if len(v) == 0 {
			return nil
		}
		return a.WriteInt8s(v)
	case int32:
		return a.WriteInt32s([]int32{v})
	case []int32:
		if len(v) == 0 {
			return nil
		}
		return a.WriteInt32s(v)
	case int16:
		return a.WriteInt16s([]int16{v})
	case []int16:
		if len(v) == 0 {
			return nil
		}
		return a.WriteInt16s(v)
	case int64:
		return a.WriteInt64s([]int64{v})
	case []int64:
		if len(v) == 0 {
			return nil
		}
		return a.WriteInt64s(v)
	default:
		return fmt.Errorf("unsupported attribute type %T", value)
	}
}

func Read(path string) (*Dataset, error) {
	nc, err := netcdf.OpenFile(path, netcdf.NOWRITE)
	if err != nil {
		return nil, fmt.Errorf("could not open '%s': %w", path, err)
	}
	defer nc.Close()

	ds := &Dataset{}

	nvars, err := nc.NVars()
	if err != nil {
		return nil, err
	}

	for i := 0; i < nvars; i++ {
		v, err := readVar(nc.VarN(i), ds)
		if errors.Is(err, errSkipped) {
			slog.Warn(fmt.Sprintf("%s: %v", path, err))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		ds.Vars = append(ds.Vars, v)
	}

	nattrs, err := nc.NAttrs()
	if err != nil {
		return nil, err
	}
	ds.Attrs, err = readAttrs(nattrs, nc.AttrN)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return ds, nil
}

// Reads the variable payload and registers its dimensions in `ds`
func readVar(ncv netcdf.Var, ds *Dataset) (*Variable, error) {
	name, err := ncv.Name()
	if err != nil {
		return nil, err
	}

	dims, err := ncv.Dims()
	if err != nil {
		return nil, err
	}

	v := &Variable{Name: name, Dims: make([]string, len(dims))}
	for i, d := range dims {
		dimName, err := d.Name()
		if err != nil {
			return nil, err
		}
		n, err := d.Len()
		if err != nil {
			return nil, err
		}
		v.Dims[i] = dimName
		ds.SetDim(dimName, int(n))
	}

	n, err := ncv.Len()
	if err != nil {
		return nil, err
	}

	t, err := ncv.Type()
	if err != nil {
		return nil, err
	}

	if err := readPayload(ncv, t, int(n), v); err != nil {
		return nil, fmt.Errorf("variable '%s': %w", name, err)
	}

	nattrs, err := ncv.NAttrs()
	if err != nil {
		return nil, err
	}
	v.Attrs, err = readAttrs(nattrs, ncv.AttrN)
	if err != nil {
		return nil, fmt.Errorf("variable '%s': %w", name, err)
	}

	return v, nil
}

// DOUBLE, BYTE and CHAR are kept as is, other numeric types are widened to float64.
// STRING variables are skipped.
func readPayload(ncv netcdf.Var, t netcdf.Type, n int, v *Variable) error {
	switch t {
	case netcdf.DOUBLE:
		v.Float64s = make([]float64, n)
		if n > 0 {
			return ncv.ReadFloat64s(v.Float64s)
		}
	case netcdf.BYTE:
		v.Int8s = make([]int8, n)
		if n > 0 {
			return ncv.ReadInt8s(v.Int8s)
		}
	case netcdf.CHAR:
		v.Chars = make([]byte, n)
		if n > 0 {
			return ncv.ReadBytes(v.Chars)
		}
	case netcdf.FLOAT:
		buf := make([]float32, n)
		if n > 0 {
			if err := ncv.ReadFloat32s(buf); err != nil {
				return err
			}
		}
		v.Float64s = widen(buf)
	case netcdf.INT:
		buf := make([]int32, n)
		if n > 0 {
			if err := ncv.ReadInt32s(buf); err != nil {
				return err
			}
		}
		v.Float64s = widen(buf)
	case netcdf.SHORT:
		buf := make([]int16, n)
		if n > 0 {
			if err := ncv.ReadInt16s(buf); err != nil {
				return err
			}
		}
		v.Float64s = widen(buf)
	case netcdf.INT64:
		buf := make([]int64, n)
		if n > 0 {
			if err := ncv.ReadInt64s(buf); err != nil {
				return err
			}
		}
		v.Float64s = widen(buf)
	case netcdf.STRING:
		return fmt.Errorf("%w, string variables are not supported", errSkipped)
	default:
		return fmt.Errorf("unsupported type %v", t)
	}
	return nil
}

func widen[T float32 | int64 | int32 | int16](buf []T) []float64 {
	out := make([]float64, len(buf))
	for i, x := range buf {
		out[i] = float64(x)
	}
	return out
}

func readAttrs(n int, attrN func(int) (netcdf.Attr, error)) (Attributes, error) {
	attrs := make(Attributes, 0, n)
	for i := 0; i < n; i++ {
		a, err := attrN(i)
		if err != nil {
			return nil, err
		}
		value, err := readAttr(a)
		if errors.Is(err, errSkipped) {
			slog.Warn(fmt.Sprintf("Attribute '%s' %v", a.Name(), err))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("attribute '%s': %w", a.Name(), err)
		}
		attrs = append(attrs, Attr{Name: a.Name(), Value: value})
	}
	return attrs, nil
}

// Single element numeric attributes are returned as scalars
func readAttr(a netcdf.Attr) (any, error) {
	t, err := a.Type()
	if err != nil {
		return nil, err
	}
	n, err := a.Len()
	if err != nil {
		return nil, err
	}

	switch t {
	case netcdf.CHAR:
		buf := make([]byte, n)
		if n > 0 {
			err = a.ReadBytes(buf)
		}
		return string(buf), err
	case netcdf.DOUBLE:
		buf := make([]float64, n)
		if n > 0 {
			err = a.ReadFloat64s(buf)
		}
		return scalarOrSlice(buf), err
	case netcdf.FLOAT:
		buf := make([]float32, n)
		if n > 0 {
			err = a.ReadFloat32s(buf)
		}
		return scalarOrSlice(buf), err
	case netcdf.BYTE:
		buf := make([]int8, n)
		if n > 0 {
			err = a.ReadInt8s(buf)
		}
		return scalarOrSlice(buf), err
	case netcdf.INT:
		buf := make([]int32, n)
		if n > 0 {
			err = a.ReadInt32s(buf)
		}
		return scalarOrSlice(buf), err
	case netcdf.SHORT:
		buf := make([]int16, n)
		if n > 0 {
			err = a.ReadInt16s(buf)
		}
		return scalarOrSlice(buf), err
	case netcdf.INT64:
		buf := make([]int64, n)
		if n > 0 {
			err = a.ReadInt64s(buf)
		}
		return scalarOrSlice(buf), err
	case netcdf.STRING:
		return nil, fmt.Errorf("%w, string attributes are not supported", errSkipped)
	default:
		return nil, fmt.Errorf("unsupported type %v", t)
	}
}

func scalarOrSlice[T any](buf []T) any {
	if len(buf) == 1 {
		return buf[0]
	}
	return buf
}
