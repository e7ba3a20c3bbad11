package mappers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// ToStruct converts any JSON-serialisable value into a Struct.
func ToStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, err
	}
	return out, nil
}

func String(s *structpb.Struct, key string) string {
	v, ok := s.GetFields()[key]
	if !ok {
		return ""
	}
	return strings.TrimSpace(v.GetStringValue())
}

// Decimal accepts numbers and numeric strings. A missing field is zero.
func Decimal(s *structpb.Struct, key string) (decimal.Decimal, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return decimal.Zero, nil
	}
	switch kind := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		return decimal.NewFromFloat(kind.NumberValue), nil
	case *structpb.Value_StringValue:
		raw := strings.TrimSpace(kind.StringValue)
		if raw == "" {
			return decimal.Zero, nil
		}
		return decimal.NewFromString(raw)
	case *structpb.Value_NullValue:
		return decimal.Zero, nil
	}
	return decimal.Zero, fmt.Errorf("field %s must be a number or numeric string", key)
}
