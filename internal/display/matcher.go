package display

// FindReview returns the review matching the item's (productId, orderId) pair,
// or nil. Both sides are compared as normalized id strings, so a populated
// productId on either side matches a bare id on the other. Missing or
// malformed fields resolve to no match rather than an error: the safe default
// is to prompt the user to review.
func FindReview(item OrderItem, orderID string, reviews []Review) *Review {
	key := item.Product.Key()
	if key == "" || orderID == "" {
		return nil
	}
	for i := range reviews {
		if reviews[i].Product.Key() == key && reviews[i].OrderID == orderID {
			return &reviews[i]
		}
	}
	return nil
}

// IsReviewed reports whether the item already has a review in this order.
func IsReviewed(item OrderItem, orderID string, reviews []Review) bool {
	return FindReview(item, orderID, reviews) != nil
}

// CountByReviewState computes the storefront tab badges over delivered rows:
// notReviewed counts rows holding at least one unreviewed item, reviewed counts
// rows holding at least one reviewed item. A row can contribute to both.
// Counts are recomputed from scratch on every call; nothing is cached.
func CountByReviewState(rows []DisplayRow, reviews []Review) (notReviewed, reviewed int) {
	for _, row := range rows {
		if row.DisplayStatus != "delivered" {
			continue
		}
		var hasReviewed, hasUnreviewed bool
		for _, it := range row.DisplayItems {
			if IsReviewed(it, row.Order.ID, reviews) {
				hasReviewed = true
			} else {
				hasUnreviewed = true
			}
		}
		if hasUnreviewed {
			notReviewed++
		}
		if hasReviewed {
			reviewed++
		}
	}
	return notReviewed, reviewed
}
