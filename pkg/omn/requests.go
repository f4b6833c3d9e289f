package omn

/*
This file contains static requests that can be made against a running server from any client.
They serve as examples of how to make client-side calls against the service.

addrStr should be of the form "<ip>:<port>".
*/

import (
	"strings"

	"github.com/onelson/omn/pkg/core/fakes/restapi"
	"resty.dev/v3"
)

// normalize "host:port" (with or without a scheme or trailing slash) into "http://host:port".
func baseURL(addrStr string) string {
	addrStr = strings.TrimSuffix(addrStr, "/")
	if !strings.HasPrefix(addrStr, "http://") && !strings.HasPrefix(addrStr, "https://") {
		addrStr = "http://" + addrStr
	}
	return addrStr
}

// Info spawns a new resty client and uses it to fetch the settings of the server at the target address.
func Info(addrStr string) (*resty.Response, InfoResp, error) {
	cli := resty.New()
	defer cli.Close()

	ir := InfoResp{}
	res, err := cli.R().
		SetExpectResponseContentType(CONTENT_TYPE).
		SetResult(&(ir.Body)).
		Get(baseURL(addrStr) + EP_INFO)
	return res, ir, err
}

// Status spawns a new resty client and uses it to make a status request against the target address.
func Status(addrStr string) (*resty.Response, StatusResp, error) {
	cli := resty.New()
	defer cli.Close()

	sr := StatusResp{}
	res, err := cli.R().
		SetExpectResponseContentType(CONTENT_TYPE).
		SetResult(&(sr.Body)).
		Get(baseURL(addrStr) + EP_STATUS)
	return res, sr, err
}

// Records spawns a new resty client and uses it to query the database through the server at the target address.
func Records(addrStr string) (*resty.Response, RecordsResp, error) {
	cli := resty.New()
	defer cli.Close()

	rr := RecordsResp{}
	res, err := cli.R().
		SetExpectResponseContentType(CONTENT_TYPE).
		SetResult(&(rr.Body)).
		Get(baseURL(addrStr) + EP_RECORDS)
	return res, rr, err
}

// Quote spawns a new resty client and uses it to fetch a quote through the server at the target address.
func Quote(addrStr string) (*resty.Response, restapi.Quote, error) {
	cli := resty.New()
	defer cli.Close()

	q := restapi.Quote{}
	res, err := cli.R().
		SetExpectResponseContentType(CONTENT_TYPE).
		SetResult(&q).
		Get(baseURL(addrStr) + EP_QUOTE)
	return res, q, err
}
