package models

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"order-desk/billing"
)

type Category string

const (
	CategoryMainDish  Category = "Main Dish"
	CategoryAppetizer Category = "Appetizer"
	CategoryDrink     Category = "Drink"
	CategoryDessert   Category = "Dessert"
	CategoryOther     Category = "Other"
)

var categories = []Category{CategoryMainDish, CategoryAppetizer, CategoryDrink, CategoryDessert, CategoryOther}

func ParseCategory(s string) (Category, error) {
	for _, c := range categories {
		if strings.EqualFold(string(c), strings.TrimSpace(s)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

type MenuItem struct {
	gorm.Model
	Name        string        `json:"name" gorm:"not null"`
	Category    Category      `json:"category" gorm:"size:32;index;not null"`
	Description string        `json:"description"`
	Price       billing.Money `json:"price" gorm:"not null;default:0"`
	Image       string        `json:"image"`
	Available   bool          `json:"available" gorm:"not null"`
}
