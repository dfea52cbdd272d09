package display

import "fmt"

// Expand splits one order into display rows: one row per delivery, in delivery
// order, plus a trailing row for the undelivered remainder when one exists. An
// order with no deliveries yields a single row mirroring the order itself.
//
// The function is pure and never fails: a delivery item that references a
// product missing from the order's lines (backend inconsistency) degrades to a
// raw item with price 0 instead of dropping the row.
func Expand(order Order) []DisplayRow {
	if len(order.Deliveries) == 0 {
		return []DisplayRow{{
			Order:         order,
			DisplayID:     order.ID,
			DisplayStatus: order.Status,
			DisplayItems:  order.Items,
			DisplayAmount: order.Amount,
		}}
	}

	rows := make([]DisplayRow, 0, len(order.Deliveries)+1)

	for i, d := range order.Deliveries {
		items := make([]OrderItem, 0, len(d.Items))
		for _, di := range d.Items {
			if src, ok := findOrderItem(order.Items, di.Product); ok {
				// Inherit the line's display fields, override id + quantity
				// with the delivered portion.
				item := src
				item.ID = di.ID
				item.Quantity = di.Quantity
				items = append(items, item)
				continue
			}
			items = append(items, OrderItem{
				ID:       di.ID,
				Product:  di.Product,
				Name:     di.Product.Name(),
				Image:    di.Product.Image(),
				Price:    0,
				Quantity: di.Quantity,
			})
		}
		rows = append(rows, DisplayRow{
			Order:         order,
			IsDeliveryRow: true,
			DeliveryIndex: i,
			DisplayID:     fmt.Sprintf("%s-D%d", order.ID, i+1),
			DisplayStatus: d.Status,
			DisplayItems:  items,
			DisplayAmount: sumAmount(items),
		})
	}

	// Undelivered remainder: per line, quantity minus what the deliveries
	// already cover. A line both partially covered and flagged undelivered
	// contributes only its remaining units, keeping the conservation law
	// Σ row.DisplayAmount == Σ line.Price*line.Quantity.
	covered := make(map[string]int)
	for _, d := range order.Deliveries {
		for _, di := range d.Items {
			if key := di.Product.Key(); key != "" {
				covered[key] += di.Quantity
			}
		}
	}
	var undelivered []OrderItem
	for _, it := range order.Items {
		if it.IsDelivered {
			continue
		}
		remaining := it.Quantity - covered[it.Product.Key()]
		if remaining <= 0 {
			continue
		}
		it.Quantity = remaining
		undelivered = append(undelivered, it)
	}
	if len(undelivered) > 0 {
		rows = append(rows, DisplayRow{
			Order:            order,
			IsUndeliveredRow: true,
			DisplayID:        order.ID,
			DisplayStatus:    order.Status,
			DisplayItems:     undelivered,
			DisplayAmount:    sumAmount(undelivered),
		})
	}
	return rows
}

// ExpandAll flattens a batch of orders, preserving order boundaries.
func ExpandAll(orders []Order) []DisplayRow {
	rows := make([]DisplayRow, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, Expand(o)...)
	}
	return rows
}

func findOrderItem(items []OrderItem, ref ProductRef) (OrderItem, bool) {
	key := ref.Key()
	if key == "" {
		return OrderItem{}, false
	}
	for _, it := range items {
		if it.Product.Key() == key {
			return it, true
		}
	}
	return OrderItem{}, false
}

func sumAmount(items []OrderItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}
