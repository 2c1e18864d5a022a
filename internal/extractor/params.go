package extractor

import (
	"kbc-extractor/lib/component"
	"kbc-extractor/lib/httpclient"
)

const (
	paramPrintRows = "print_rows"
)

// ApiParams configures the REST source. The client settings (base_url,
// params, headers, max_retries, ...) are read into the embedded config.
type ApiParams struct {
	httpclient.Config
	Endpoint string `json:"endpoint"`
	// gjson path of the records inside the response body, "$." prefixes are
	// accepted. Empty selects the whole body.
	RecordsPath string `json:"records_path"`
}

type Parameters struct {
	PrintRows   bool       `json:"print_rows"`
	ApiToken    string     `json:"#api_token"`
	Api         *ApiParams `json:"api"`
	Incremental *bool      `json:"incremental"`
}

func (p Parameters) useApi() bool {
	return p.Api != nil && p.Api.BaseUrl != ""
}

func (p Parameters) incremental() bool {
	if p.Incremental == nil {
		return true
	}
	return *p.Incremental
}

func readParameters(ci *component.Interface) (Parameters, error) {
	err := ci.ValidateParameters(paramPrintRows)
	if err != nil {
		return Parameters{}, err
	}
	var params Parameters
	err = ci.Config.DecodeParameters(&params)
	if err != nil {
		return Parameters{}, err
	}
	if params.Api != nil && params.Api.BaseUrl == "" && params.Api.Endpoint != "" {
		return Parameters{}, component.NewUserError("api.endpoint is set but api.base_url is empty")
	}
	return params, nil
}
