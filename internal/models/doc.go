// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

/*
Package models defines the JSON shapes of the HTTP API.

Every endpoint answers with the APIResponse envelope:

	{
	  "status": "success",
	  "data": [...],
	  "metadata": {"timestamp": "2026-03-01T12:00:00Z", "query_time_ms": 3}
	}

Errors set status to "error" and fill the error object with a machine
readable code:

	{
	  "status": "error",
	  "data": null,
	  "error": {"code": "NOT_FOUND", "message": "item \"b9\" not found"},
	  "metadata": {"timestamp": "2026-03-01T12:00:00Z"}
	}
*/
package models
