package db

import "context"

const getVendorByCode = `
SELECT id, name, code FROM vendors WHERE code = ?
`

func (q *Queries) GetVendorByCode(ctx context.Context, code string) (Vendor, error) {
	row := q.db.QueryRowContext(ctx, getVendorByCode, code)
	var v Vendor
	err := row.Scan(&v.ID, &v.Name, &v.Code)
	return v, err
}

const createVendor = `
INSERT INTO vendors (name, code) VALUES (?, ?)
`

type CreateVendorParams struct {
	Name string
	Code string
}

func (q *Queries) CreateVendor(ctx context.Context, arg CreateVendorParams) (Vendor, error) {
	res, err := q.db.ExecContext(ctx, createVendor, arg.Name, arg.Code)
	if err != nil {
		return Vendor{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Vendor{}, err
	}
	return Vendor{ID: id, Name: arg.Name, Code: arg.Code}, nil
}

const getSellerBySlug = `
SELECT id, name, slug, vendor_id FROM sellers WHERE vendor_id = ? AND slug = ?
`

type GetSellerBySlugParams struct {
	VendorID int64
	Slug     string
}

func (q *Queries) GetSellerBySlug(ctx context.Context, arg GetSellerBySlugParams) (Seller, error) {
	row := q.db.QueryRowContext(ctx, getSellerBySlug, arg.VendorID, arg.Slug)
	var s Seller
	err := row.Scan(&s.ID, &s.Name, &s.Slug, &s.VendorID)
	return s, err
}

const createSeller = `
INSERT INTO sellers (name, slug, vendor_id) VALUES (?, ?, ?)
`

type CreateSellerParams struct {
	Name     string
	Slug     string
	VendorID int64
}

func (q *Queries) CreateSeller(ctx context.Context, arg CreateSellerParams) (Seller, error) {
	res, err := q.db.ExecContext(ctx, createSeller, arg.Name, arg.Slug, arg.VendorID)
	if err != nil {
		return Seller{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Seller{}, err
	}
	return Seller{ID: id, Name: arg.Name, Slug: arg.Slug, VendorID: arg.VendorID}, nil
}

const getProductByCode = `
SELECT id, code, name, slug, brand, model, variant
FROM products WHERE code = ?
`

func (q *Queries) GetProductByCode(ctx context.Context, code string) (Product, error) {
	row := q.db.QueryRowContext(ctx, getProductByCode, code)
	var p Product
	err := row.Scan(&p.ID, &p.Code, &p.Name, &p.Slug, &p.Brand, &p.Model, &p.Variant)
	return p, err
}

const createProduct = `
INSERT INTO products (code, name, slug, brand, model, variant)
VALUES (?, ?, ?, ?, ?, ?)
`

type CreateProductParams struct {
	Code    string
	Name    string
	Slug    string
	Brand   string
	Model   string
	Variant string
}

func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, createProduct,
		arg.Code, arg.Name, arg.Slug, arg.Brand, arg.Model, arg.Variant)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const createListing = `
INSERT INTO listings
    (product_id, seller_id, vendor_id, url, source_column, price, rating,
     rating_count, shipping_price, shipping_eta, collected_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateListingParams struct {
	ProductID     int64
	SellerID      int64
	VendorID      int64
	URL           string
	SourceColumn  string
	Price         float64
	Rating        interface{}
	RatingCount   interface{}
	ShippingPrice interface{}
	ShippingETA   string
	CollectedAt   string
}

func (q *Queries) CreateListing(ctx context.Context, arg CreateListingParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, createListing,
		arg.ProductID, arg.SellerID, arg.VendorID, arg.URL, arg.SourceColumn,
		arg.Price, arg.Rating, arg.RatingCount, arg.ShippingPrice,
		arg.ShippingETA, arg.CollectedAt)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const countListingsByProduct = `
SELECT COUNT(*) FROM listings WHERE product_id = ?
`

func (q *Queries) CountListingsByProduct(ctx context.Context, productID int64) (int64, error) {
	row := q.db.QueryRowContext(ctx, countListingsByProduct, productID)
	var n int64
	err := row.Scan(&n)
	return n, err
}

const countProducts = `
SELECT COUNT(*) FROM products
`

func (q *Queries) CountProducts(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countProducts)
	var n int64
	err := row.Scan(&n)
	return n, err
}
