package painting

const DefaultCurrency = "KES"

// Painting is an uploaded painting record. Rows are append-only.
type Painting struct {
	ID          uint    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title       string  `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Price       float64 `gorm:"column:price;type:decimal(10,2);not null" json:"price"`
	Currency    string  `gorm:"column:currency;type:varchar(8);not null;default:KES" json:"currency"`
	Description string  `gorm:"column:description;type:text" json:"description"`
	ImagePath   string  `gorm:"column:image_path;type:varchar(255);not null" json:"image_path"`
}

func (Painting) TableName() string { return "paintings" }
