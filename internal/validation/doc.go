// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

/*
Package validation validates API requests with go-playground/validator v10.

A single validator instance is shared process-wide. Besides the built-in
tags it registers "identifier", which rejects whitespace, control characters
and invalid UTF-8. Errors are reported by JSON or query field name and
convert to the VALIDATION_ERROR envelope via ToAPIError:

	req := validation.SimilarRequest{ItemID: id, K: k}
	if verr := validation.ValidateStruct(&req); verr != nil {
	    apiErr := verr.ToAPIError()
	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
	    return
	}
*/
package validation
