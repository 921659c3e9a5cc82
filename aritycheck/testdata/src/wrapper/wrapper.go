package wrapper

import "legacy"

//arity:mirror legacy.Order
type Order struct { // want `Order has 2 fields but legacy.Order has 3`
	ID     int64
	Status legacy.Status
}

//arity:mirror legacy.Item
type Item struct {
	SKU string
	Qty int
}

//arity:mirror Item
type LocalItem struct { // want `LocalItem has 3 fields but Item has 2`
	SKU  string
	Qty  int
	Note string
}

//arity:mirror wrapper.Item
type Twin struct {
	SKU string
	Qty int
}

//arity:count 2
type Pinned struct { // want `Pinned has 3 fields, pinned to 2`
	A, B, C int
}

//arity:count 1
type Point struct{ X int }

//arity:mirror legacy.Missing
type Ghost struct{} // want `cannot resolve legacy.Missing`

//arity:mirror legacy.Status
type Code struct{ V string } // want `cannot count legacy.Status`

//arity:count x
type Bad struct{} // want `invalid arity directive`

type (
	//arity:count 2
	Grouped struct { // want `Grouped has 1 fields, pinned to 2`
		A int
	}

	Plain struct{ A, B int }
)

//arity:count 4
type Block [4]Item
