// Package apigw is the single HTTP chokepoint between the client
// application and the TheraFlow backend.
//
// Every call flows through Client.Do (or the Get/Post/Put/Delete helpers),
// which:
//
//   - reads the stored access token and attaches it as a bearer credential;
//   - decodes the backend's {success, data, message, code} envelope;
//   - maps every failure onto exactly one Kind of the error taxonomy;
//   - purges the persisted session when the backend answers 401, so no
//     call site can forget to invalidate a rejected credential.
//
// # Error taxonomy
//
//	KindNetwork     transport failure, no response (timeouts included)
//	KindAuth        HTTP 401, sub-classified by the backend code field
//	KindNotFound    HTTP 404
//	KindServer      HTTP 5xx
//	KindUnknownHTTP any other unexpected status or response shape
//	KindClient      the request could not be built
//
// Callers branch on Error.IsAuthError() to learn the session is gone; the
// AuthCode only picks a more specific user-facing message.
//
// # Usage
//
//	store := kvstore.NewFailSoft(kvstore.Resolve(ctx, storageCfg, log), log)
//	gw, err := apigw.New(apigw.Config{BaseURL: "https://api.theraflow.app/v1"}, store)
//
//	var invoices []Invoice
//	if err := gw.Get(ctx, "/invoices", &invoices); err != nil {
//	    apiErr, _ := apigw.AsError(err)
//	    render(apiErr.Message)
//	}
package apigw
