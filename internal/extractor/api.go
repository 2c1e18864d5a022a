package extractor

import (
	"context"
	"strings"

	"kbc-extractor/lib/component"
	"kbc-extractor/lib/httpclient"

	"github.com/tidwall/gjson"
)

func normalizeRecordsPath(path string) string {
	switch {
	case path == "" || path == "$":
		return "@this"
	case strings.HasPrefix(path, "$."):
		return path[2:]
	}
	return path
}

func cellValue(value gjson.Result) string {
	switch value.Type {
	case gjson.Null:
		return ""
	case gjson.JSON:
		return value.Raw
	}
	return value.String()
}

// recordsToTable turns the records found at `path` into a table. An array
// yields one row per element, a single object yields one row. Columns are
// ordered by first appearance.
func recordsToTable(body []byte, path string) (Table, error) {
	if !gjson.ValidBytes(body) {
		return Table{}, component.NewUserError("api response is not valid json")
	}
	result := gjson.GetBytes(body, normalizeRecordsPath(path))
	if !result.Exists() {
		return Table{}, component.NewUserError("records path %q not found in api response", path)
	}

	var records []gjson.Result
	switch {
	case result.IsArray():
		records = result.Array()
	case result.IsObject():
		records = []gjson.Result{result}
	default:
		return Table{}, component.NewUserError("records path %q does not point to an object or an array", path)
	}

	var table Table
	index := map[string]int{}
	var cells []map[string]string
	for _, record := range records {
		if !record.IsObject() {
			return Table{}, component.NewUserError("record %s is not an object", record.Raw)
		}
		row := map[string]string{}
		record.ForEach(func(key, value gjson.Result) bool {
			name := key.String()
			if _, ok := index[name]; !ok {
				index[name] = len(table.Columns)
				table.Columns = append(table.Columns, name)
			}
			row[name] = cellValue(value)
			return true
		})
		cells = append(cells, row)
	}

	for _, row := range cells {
		out := make([]string, len(table.Columns))
		for name, value := range row {
			out[index[name]] = value
		}
		table.Rows = append(table.Rows, out)
	}
	return table, nil
}

const tracerName = "internal/extractor"

func fetchApiTable(ctx context.Context, params Parameters, opts ...httpclient.Option) (Table, error) {
	defaults := []httpclient.Option{httpclient.WithTracerName(tracerName)}
	if params.ApiToken != "" {
		defaults = append(defaults, httpclient.WithAuthToken(params.ApiToken))
	}
	opts = append(defaults, opts...)
	client, err := params.Api.NewClient(opts...)
	if err != nil {
		return Table{}, component.WrapUserError(err, "invalid api configuration")
	}

	res, err := client.GetRaw(ctx, params.Api.Endpoint, nil)
	if err != nil {
		return Table{}, err
	}
	return recordsToTable(res.Body(), params.Api.RecordsPath)
}
