package domain

import "strings"

// Address — почтовый адрес клиента. Собственного жизненного цикла не имеет:
// создаётся и удаляется вместе с владельцем.
type Address struct {
	ID         int64
	Street     string
	City       string
	Region     string
	PostalCode string
	Country    string
}

// IsZero сообщает, что адрес не заполнен.
func (a Address) IsZero() bool {
	return strings.TrimSpace(a.Street) == "" &&
		strings.TrimSpace(a.City) == "" &&
		strings.TrimSpace(a.Region) == "" &&
		strings.TrimSpace(a.PostalCode) == "" &&
		strings.TrimSpace(a.Country) == ""
}

// Normalize убирает лишние пробелы по краям полей.
func (a Address) Normalize() Address {
	return Address{
		ID:         a.ID,
		Street:     strings.TrimSpace(a.Street),
		City:       strings.TrimSpace(a.City),
		Region:     strings.TrimSpace(a.Region),
		PostalCode: strings.TrimSpace(a.PostalCode),
		Country:    strings.TrimSpace(a.Country),
	}
}

func (a Address) String() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{a.Street, a.PostalCode, a.City, a.Region, a.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
