// Copyright (C) 2025 Plato Labs (engineering@platolabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package conversation

import (
	"context"

	"github.com/platolabs/plato/services/tutor/datatypes"
)

// Store is the durable side of conversation history.
//
// Find returns the most recent exchanges for a conversation, ordered
// oldest first, capped at DefaultMaxExchanges. A conversation with no
// history returns an empty slice and nil error; absence is not an
// error condition.
//
// Insert appends one exchange. Exchanges are immutable once written.
type Store interface {
	Find(ctx context.Context, userID, subtopicID string) ([]datatypes.Exchange, error)
	Insert(ctx context.Context, ex datatypes.Exchange) error
}
