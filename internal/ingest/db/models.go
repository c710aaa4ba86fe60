package db

import "database/sql"

type Vendor struct {
	ID   int64
	Name string
	Code string
}

type Seller struct {
	ID       int64
	Name     string
	Slug     string
	VendorID int64
}

type Product struct {
	ID      int64
	Code    string
	Name    string
	Slug    string
	Brand   string
	Model   string
	Variant string
}

type Listing struct {
	ID            int64
	ProductID     int64
	SellerID      int64
	VendorID      int64
	URL           string
	SourceColumn  string
	Price         float64
	Rating        sql.NullFloat64
	RatingCount   sql.NullInt64
	ShippingPrice sql.NullFloat64
	ShippingETA   string
	CollectedAt   string
}
