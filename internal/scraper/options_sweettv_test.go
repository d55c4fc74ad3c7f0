package scraper

import "testing"

func TestSweetTVOptionsSubscriptionPackage(t *testing.T) {
	rows := SweetTVOptions(1, 20, `{"L":"150 грн"}`)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].AccessType != "Subscription (L)" {
		t.Errorf("access type = %q", rows[0].AccessType)
	}
	if rows[0].Price == nil || *rows[0].Price != 150 {
		t.Errorf("price = %v, want 150", rows[0].Price)
	}
}

func TestSweetTVOptionsNestedPurchase(t *testing.T) {
	rows := SweetTVOptions(1, 20, `{"Покупка":{"SD":"100 грн","HD":"150 грн"}}`)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	// Qualities come out sorted.
	if rows[0].AccessType != "Покупка (HD)" || rows[1].AccessType != "Покупка (SD)" {
		t.Errorf("access types = %q, %q", rows[0].AccessType, rows[1].AccessType)
	}
	if rows[0].Price == nil || *rows[0].Price != 150 {
		t.Errorf("HD price = %v, want 150", rows[0].Price)
	}
	if rows[1].Price == nil || *rows[1].Price != 100 {
		t.Errorf("SD price = %v, want 100", rows[1].Price)
	}
}

func TestSweetTVOptionsPriceAsymmetry(t *testing.T) {
	// A package price that strips to nothing means the base subscription
	// covers it; a nested tier with no digits stays unpriced.
	flat := SweetTVOptions(1, 20, `{"M":"безкоштовно"}`)
	if len(flat) != 1 {
		t.Fatalf("flat: got %d rows, want 1", len(flat))
	}
	if flat[0].Price == nil || *flat[0].Price != 0 {
		t.Errorf("flat price = %v, want 0", flat[0].Price)
	}

	nested := SweetTVOptions(1, 20, `{"Оренда":{"HD":"недоступно"}}`)
	if len(nested) != 1 {
		t.Fatalf("nested: got %d rows, want 1", len(nested))
	}
	if nested[0].Price != nil {
		t.Errorf("nested price = %v, want nil", *nested[0].Price)
	}
}

func TestSweetTVOptionsMalformed(t *testing.T) {
	if rows := SweetTVOptions(1, 20, `[1,2,3]`); rows != nil {
		t.Errorf("got %d rows for non-object blob, want none", len(rows))
	}
}
