// export_test.go exports private functions for white-box testing.
package cache

var WriteAtomic = writeAtomic
