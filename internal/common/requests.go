package common

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

func MakeRequestFromBuilder(restBuilder *resty.Request, method string, finalUrl string) (*resty.Response, error) {

	switch strings.ToUpper(method) {
	case http.MethodGet:
		return restBuilder.Get(finalUrl)
	case http.MethodPost:
		return restBuilder.Post(finalUrl)
	case http.MethodPut:
		return restBuilder.Put(finalUrl)
	case http.MethodDelete:
		return restBuilder.Delete(finalUrl)
	default:
		return nil, fmt.Errorf("unsupported HTTP method: %s. Ensure you're using the http const", method)
	}

}

// JoinURL appends a path to a base URL without doubling the separator.
func JoinURL(base string, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
