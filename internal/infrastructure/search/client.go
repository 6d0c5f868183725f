package search

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
)

// ClientOptions holds the connection settings for NewClient.
type ClientOptions struct {
	Addrs    []string
	Username string
	Password string
}

// NewClient builds an Elasticsearch client and checks that the cluster
// answers before handing it out.
func NewClient(ctx context.Context, opts ClientOptions) (*elasticsearch.Client, error) {
	if len(opts.Addrs) == 0 {
		return nil, fmt.Errorf("no elasticsearch addresses configured")
	}
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: opts.Addrs,
		Username:  opts.Username,
		Password:  opts.Password,
		Transport: &http.Transport{
			MaxIdleConnsPerHost:   10,
			ResponseHeaderTimeout: requestTimeout,
			TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
			DialContext:           (&net.Dialer{Timeout: requestTimeout}).DialContext,
		},
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := es.Info(es.Info.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch info: %s", res.Status())
	}
	return es, nil
}
