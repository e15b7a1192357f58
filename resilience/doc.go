// Package resilience holds the two call-shaping primitives used by provider
// adapters: a token-bucket RateLimiter that paces outgoing requests to a
// vendor's published quota, and Retry for transport-level reconnects.
//
//	rl := resilience.NewRateLimiter(resilience.PerMinute("openai", 3500))
//	if err := rl.Wait(ctx); err != nil { return err }
//
//	resp, err := resilience.Retry(ctx, resilience.ReconnectConfig(httpclient.IsConnection), func() (*Response, error) {
//	    return client.Do(ctx, req)
//	})
package resilience
