package executor

import (
	"encoding/base64"
	"encoding/json"

	"github.com/mitchellh/mapstructure"
)

// deployParams is the strict shape spec.md §4.G requires of a deploy
// transaction's payload: {name, params?, code}. mapstructure decodes the
// loosely-typed JSON map into this struct so a wrong-typed field (e.g.
// name as a number) is rejected the same way a missing field is.
type deployParams struct {
	Name   string      `mapstructure:"name"`
	Params interface{} `mapstructure:"params"`
	Code   string      `mapstructure:"code"`
}

// parseDeployPayload decodes tx payload JSON into deployParams, reporting
// ErrBadDeployPayload when name/code are missing or not strings.
func parseDeployPayload(payload string) (deployParams, error) {
	var raw map[string]interface{}
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &raw); err != nil {
			return deployParams{}, ErrBadDeployPayload
		}
	}

	var params deployParams
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &params,
		WeaklyTypedInput: false,
	})
	if err != nil {
		return deployParams{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return deployParams{}, ErrBadDeployPayload
	}

	if params.Name == "" || params.Code == "" {
		return deployParams{}, ErrBadDeployPayload
	}
	return params, nil
}

// decodeCode base64-decodes the deploy payload's code field into the raw
// JS source a contract's actions are written in.
func decodeCode(code string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(code)
	if err != nil {
		return "", ErrBadDeployPayload
	}
	return string(raw), nil
}
