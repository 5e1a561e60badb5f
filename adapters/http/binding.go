package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin/binding"
)

// strictJSON decodes like binding.JSON but rejects unknown keys.
var strictJSON binding.Binding = strictJSONBinding{}

type strictJSONBinding struct{}

func (strictJSONBinding) Name() string { return "strict_json" }

func (strictJSONBinding) Bind(req *http.Request, obj any) error {
	if req == nil || req.Body == nil {
		return errors.New("invalid request")
	}
	dec := json.NewDecoder(req.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(obj); err != nil {
		return err
	}
	if binding.Validator == nil {
		return nil
	}
	return binding.Validator.ValidateStruct(obj)
}
