package extraction

import "fmt"

// ResultView is a Result bound for display with every gap filled by the
// defined default: missing merchant or date is "N/A", a missing total or
// price is "0.00", a missing quantity is 1, and a missing item name falls
// back description -> name -> "Item {n}" (1-based). This table is a contract:
// it defines what a successful but partial extraction looks like to the user.
type ResultView struct {
	Merchant string
	Date     string
	Total    string
	Items    []ItemView
}

// ItemView is one line item bound for display.
type ItemView struct {
	Name     string
	Quantity int
	Price    string
}

// View applies the display fallbacks to a Result.
func (r *Result) View() ResultView {
	view := ResultView{
		Merchant: "N/A",
		Date:     "N/A",
		Total:    "0.00",
		Items:    make([]ItemView, 0, len(r.Items)),
	}

	if r.Merchant != nil {
		view.Merchant = *r.Merchant
	}
	if r.Date != nil {
		view.Date = *r.Date
	}
	if r.Total != nil {
		view.Total = r.Total.StringFixed(2)
	}

	for i, item := range r.Items {
		iv := ItemView{
			Name:     fmt.Sprintf("Item %d", i+1),
			Quantity: 1,
			Price:    "0.00",
		}
		switch {
		case item.Description != nil && *item.Description != "":
			iv.Name = *item.Description
		case item.Name != nil && *item.Name != "":
			iv.Name = *item.Name
		}
		if item.Quantity != nil {
			iv.Quantity = *item.Quantity
		}
		if item.Price != nil {
			iv.Price = item.Price.StringFixed(2)
		}
		view.Items = append(view.Items, iv)
	}

	return view
}
