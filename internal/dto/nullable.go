package dto

import (
	"bytes"
	"encoding/json"
)

// NullableID 区分 PATCH 请求中"未提供"与"显式置空"
//
//	字段缺省      → Set=false
//	"field": null → Set=true, Value=nil
//	"field": "x"  → Set=true, Value=&"x"
type NullableID struct {
	Set   bool
	Value *string
}

// UnmarshalJSON 仅在字段出现时被调用
func (n *NullableID) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}
