package quote

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// envelope is the wire form of a Data value: {"variant": "...", "data": {...}}
type envelope struct {
	Variant Variant         `json:"variant"`
	Data    json.RawMessage `json:"data"`
}

// MarshalData encodes a Data variant with its type tag
func MarshalData(d Data) ([]byte, error) {
	if d == nil {
		return nil, fmt.Errorf("cannot marshal nil quote data")
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s data: %w", d.Variant(), err)
	}
	return json.Marshal(envelope{Variant: d.Variant(), Data: raw})
}

// UnmarshalData decodes a tagged Data variant
func UnmarshalData(b []byte) (Data, error) {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("failed to decode quote data envelope: %w", err)
	}
	return DecodeVariant(env.Variant, env.Data)
}

// DecodeVariant decodes the untagged payload of a known variant
func DecodeVariant(variant Variant, raw []byte) (Data, error) {
	switch variant {
	case VariantSwedishApartment:
		return decodeAs[SwedishApartment](variant, raw)
	case VariantSwedishHouse:
		return decodeAs[SwedishHouse](variant, raw)
	case VariantNorwegianHomeContents:
		return decodeAs[NorwegianHomeContents](variant, raw)
	case VariantNorwegianTravel:
		return decodeAs[NorwegianTravel](variant, raw)
	case VariantDanishHomeContents:
		return decodeAs[DanishHomeContents](variant, raw)
	case VariantDanishAccident:
		return decodeAs[DanishAccident](variant, raw)
	case VariantDanishTravel:
		return decodeAs[DanishTravel](variant, raw)
	default:
		return nil, fmt.Errorf("unknown quote data variant %q", variant)
	}
}

func decodeAs[T Data](variant Variant, raw []byte) (Data, error) {
	var v T
	if len(raw) == 0 {
		return nil, fmt.Errorf("missing %s data", variant)
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("failed to decode %s data: %w", variant, err)
	}
	return v, nil
}

// MarshalJSON encodes the quote including its tagged data
func (q Quote) MarshalJSON() ([]byte, error) {
	type plain Quote
	var data json.RawMessage
	if q.Data != nil {
		raw, err := MarshalData(q.Data)
		if err != nil {
			return nil, err
		}
		data = raw
	}
	return json.Marshal(struct {
		plain
		Data json.RawMessage `json:"data,omitempty"`
	}{plain: plain(q), Data: data})
}

// UnmarshalJSON decodes a quote including its tagged data
func (q *Quote) UnmarshalJSON(b []byte) error {
	type plain Quote
	var aux struct {
		plain
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return fmt.Errorf("failed to decode quote: %w", err)
	}
	*q = Quote(aux.plain)
	if len(aux.Data) > 0 && string(aux.Data) != "null" {
		d, err := UnmarshalData(aux.Data)
		if err != nil {
			return err
		}
		q.Data = d
	}
	return nil
}
