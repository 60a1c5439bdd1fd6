package adapter

import (
	"encoding/json"
)

// JSON is the codec used for artwork events on the wire and for off-chain
// metadata documents, kept behind an interface so codec failures can be
// simulated in tests.
//
//go:generate mockgen -source=json.go -destination=../mocks/json.go -package=mocks -mock_names=JSON=MockJSON
type JSON interface {
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
}

type jsonCodec struct{}

// NewJSON returns the encoding/json backed codec
func NewJSON() JSON {
	return &jsonCodec{}
}

func (c *jsonCodec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (c *jsonCodec) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}
