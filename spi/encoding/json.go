package encoding

import (
	"github.com/goccy/go-json"
	"github.com/safariyetu/bigqueryobjects/spi/config"
)

// JsonEncoder renders values as JSON. With custom reflection enabled
// it uses goccy's no-escape marshalling, which skips escape analysis
// for values that never outlive the call.
type JsonEncoder struct {
	noEscape bool
}

func NewJsonEncoderWithConfig(c *config.Config) *JsonEncoder {
	return NewJsonEncoder(
		config.GetOrDefault(c, config.PropertyEncodingCustomReflection, true),
	)
}

func NewJsonEncoder(customReflection bool) *JsonEncoder {
	return &JsonEncoder{
		noEscape: customReflection,
	}
}

func (j *JsonEncoder) Marshal(value any) ([]byte, error) {
	if j.noEscape {
		return json.MarshalNoEscape(value)
	}
	return json.Marshal(value)
}

// MarshalIndent renders value as human readable JSON, used for
// schema and row dumps on the command line.
func (j *JsonEncoder) MarshalIndent(value any, indent string) ([]byte, error) {
	return json.MarshalIndent(value, "", indent)
}

// JsonDecoder is the inverse of JsonEncoder and follows the same
// custom reflection switch.
type JsonDecoder struct {
	noEscape bool
}

func NewJsonDecoderWithConfig(c *config.Config) *JsonDecoder {
	return NewJsonDecoder(
		config.GetOrDefault(c, config.PropertyEncodingCustomReflection, true),
	)
}

func NewJsonDecoder(customReflection bool) *JsonDecoder {
	return &JsonDecoder{
		noEscape: customReflection,
	}
}

func (j *JsonDecoder) Unmarshal(data []byte, v any) error {
	if j.noEscape {
		return json.UnmarshalNoEscape(data, v)
	}
	return json.Unmarshal(data, v)
}
