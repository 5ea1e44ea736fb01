package config

import (
	"fmt"
	"reflect"
)

// MergeConfig 合并配置
// - dst 和 src 都为 nil 时返回错误
// - dst 为 nil 返回 src；src 为 nil 返回 dst
// - 否则对 dst 做深度合并：src 中的非零值覆盖 dst 中的对应值
//
// 各 pkg 的 New(cfg) 依赖此函数，保证用户只传部分配置时其余字段取默认值。
func MergeConfig[T any](dst, src *T) (*T, error) {
	if dst == nil && src == nil {
		return nil, ErrNilConfig
	}
	if dst == nil {
		return src, nil
	}
	if src == nil {
		return dst, nil
	}

	if err := mergeValues(reflect.ValueOf(dst).Elem(), reflect.ValueOf(src).Elem()); err != nil {
		return nil, err
	}
	return dst, nil
}

// mergeValues 递归合并两个 reflect.Value
func mergeValues(dst, src reflect.Value) error {
	// src 为零值时不覆盖
	if !src.IsValid() || isZeroValue(src) {
		return nil
	}

	switch dst.Kind() {
	case reflect.Struct:
		return mergeStruct(dst, src)
	case reflect.Map:
		return mergeMap(dst, src)
	case reflect.Ptr:
		return mergePointer(dst, src)
	default:
		// 基本类型与切片直接覆盖
		if dst.CanSet() {
			dst.Set(src)
		}
		return nil
	}
}

func mergeStruct(dst, src reflect.Value) error {
	srcType := src.Type()
	for i := 0; i < src.NumField(); i++ {
		fieldType := srcType.Field(i)
		if !fieldType.IsExported() {
			continue
		}

		dstField := dst.FieldByName(fieldType.Name)
		if !dstField.IsValid() || !dstField.CanSet() {
			continue
		}

		if err := mergeValues(dstField, src.Field(i)); err != nil {
			return fmt.Errorf("failed to merge field %s: %w", fieldType.Name, err)
		}
	}
	return nil
}

func mergeMap(dst, src reflect.Value) error {
	if dst.IsNil() {
		dst.Set(reflect.MakeMap(dst.Type()))
	}

	iter := src.MapRange()
	for iter.Next() {
		key := iter.Key()
		srcValue := iter.Value()

		if dstValue := dst.MapIndex(key); dstValue.IsValid() {
			merged := reflect.New(dst.Type().Elem()).Elem()
			merged.Set(dstValue)
			if err := mergeValues(merged, srcValue); err != nil {
				return err
			}
			dst.SetMapIndex(key, merged)
		} else {
			dst.SetMapIndex(key, srcValue)
		}
	}
	return nil
}

func mergePointer(dst, src reflect.Value) error {
	if src.IsNil() {
		return nil
	}
	if dst.IsNil() {
		dst.Set(reflect.New(dst.Type().Elem()))
	}
	return mergeValues(dst.Elem(), src.Elem())
}

// isZeroValue 检查是否为零值
func isZeroValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.String:
		return v.String() == ""
	case reflect.Ptr, reflect.Interface, reflect.Func:
		return v.IsNil()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	case reflect.Struct:
		return reflect.DeepEqual(v.Interface(), reflect.Zero(v.Type()).Interface())
	default:
		return false
	}
}
