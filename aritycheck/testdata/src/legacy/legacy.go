package legacy

type Order struct {
	ID     int64
	Status Status
	Total  int64
}

type Item struct {
	SKU string
	Qty int
}

type Status string
