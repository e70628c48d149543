// export_test.go exports private functions for white-box testing.
package apidb

// OpenUnchecked wraps data after parsing the header only, so tests can query
// indexes whose payload is shorter than declared.
func OpenUnchecked(data []byte) (*Index, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}
	return wrap(h, data), nil
}
