package model

import "time"

// Brand is a tire manufacturer in the catalog.
type Brand struct {
	ID   uint64 // brands.brand_id
	Name string // brands.brand_name
}

// CarBrand is a vehicle manufacturer used when registering vehicles.
type CarBrand struct {
	ID   uint64 // car_brands.car_brand_id
	Name string // car_brands.car_brand_name
}

// TireModel is a product line under a brand.
type TireModel struct {
	ID      uint64 // tire_models.model_id
	BrandID uint64 // tire_models.brand_id
	Name    string // tire_models.model_name
}

// Tire is one sellable tire size under a model.  FullSize is the printed
// sidewall designation ("195/65R15"); Width/AspectRatio/RimDiameter are its
// numeric components kept separately for filtering.
//
// Fields:
//
//	ID              – primary key identifier.
//	ModelID         – owning tire model.
//	Width           – section width in millimetres.
//	AspectRatio     – sidewall aspect ratio.
//	RimDiameter     – rim diameter in inches.
//	FullSize        – printed size designation.
//	LoadIndex       – load index code.
//	HighSpeedRating – speed rating letter.
//	PriceEach       – price per tire in THB.
//	PriceSet        – price for a set of four in THB.
//	ProductDate     – production week/year string.
//	ImageURL        – uploaded product image path ("" when unset).
type Tire struct {
	ID              uint64  // tires.tire_id
	ModelID         uint64  // tires.model_id
	Width           int     // tires.width
	AspectRatio     int     // tires.aspect_ratio
	RimDiameter     int     // tires.rim_diameter
	FullSize        string  // tires.full_size
	LoadIndex       string  // tires.load_index
	HighSpeedRating string  // tires.high_speed_rating
	PriceEach       float64 // tires.price_each
	PriceSet        float64 // tires.price_set
	ProductDate     string  // tires.product_date
	ImageURL        string  // tires.tire_image_url
}

// Service is one bookable shop service (e.g. wheel balancing).
type Service struct {
	ID          uint64 // services.service_id
	Name        string // services.service_name
	Category    string // services.service_category
	Description string // services.service_description
	IsActive    bool   // services.is_active
}

// ServiceOption is a variant of a service the customer picks when booking
// (e.g. "2 wheels" / "4 wheels").
type ServiceOption struct {
	ID        uint64  // service_options.option_id
	ServiceID uint64  // service_options.service_id
	Name      string  // service_options.option_name
	Price     float64 // service_options.option_price
}

// Promotion is a time-bounded marketing campaign shown to customers.
type Promotion struct {
	ID          uint64    // promotions.promotion_id
	Title       string    // promotions.title
	Description string    // promotions.description
	ImageURL    string    // promotions.image_url
	StartDate   string    // promotions.start_date
	EndDate     string    // promotions.end_date
	IsActive    bool      // promotions.is_active
	CreatedAt   time.Time // promotions.created_at
}
