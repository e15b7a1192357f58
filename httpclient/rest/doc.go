// Package rest provides typed JSON helpers over httpclient.
//
//	client, _ := rest.New(httpclient.Config{BaseURL: "https://api.anthropic.com"})
//	resp, err := rest.Post[json.RawMessage](ctx, client, "/v1/messages", body)
package rest
