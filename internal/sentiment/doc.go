// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

/*
Package sentiment scores free-text book comments.

Scoring is delegated to an external classifier reached over HTTP. The
classifier answers with a label and a confidence; MapLabelToScore turns that
into a signed score in [-1, 1] and a coarse band:

	score >= 0.6   excellent
	score >= 0.2   good
	score <= -0.2  poor
	otherwise      avg

Aggregate folds many results into a per-book Rating with a 1 to 5 star
projection of the mean score.
*/
package sentiment
