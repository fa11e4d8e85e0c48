// Package avela provides a Go client SDK for the Avela Customer API,
// the REST surface school districts use to read and update enrollment data.
//
// The client owns the OAuth2 client-credentials token lifecycle, paces every
// request against the vendor's rate quota (100 requests per 5 minutes by
// default), and retries transient failures with exponential backoff while
// honoring Retry-After. Callers never see a 429 or a flaky 503 unless the
// retry budget runs out.
//
// Basic usage:
//
//	client, err := avela.New(avela.EnvProd, clientID, clientSecret)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Walk every applicant, one paced request per page
//	applicants := client.Applicants()
//	for applicants.Next(ctx) {
//	    process(applicants.Item())
//	}
//	if err := applicants.Err(); err != nil {
//	    log.Fatal(err)
//	}
package avela
