// Package useragent classifies HTTP clients by the kind of device behind the
// User-Agent header. It is used to tell phones scanning a code apart from
// link-preview crawlers that fetch the same URL.
//
//	d := useragent.Classify(r.UserAgent())
//	if d.IsBot() {
//	    // skip analytics
//	}
package useragent
