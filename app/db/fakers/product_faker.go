package fakers

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/Rakhulsr/mini-pos/app/services"
	"github.com/go-faker/faker/v4"
	"github.com/shopspring/decimal"
)

var categoryNames = []string{"Makanan", "Minuman", "Snack", "Sembako", "Kebersihan", "Alat Tulis"}

func CategoryFaker() []services.CategoryInput {
	inputs := make([]services.CategoryInput, 0, len(categoryNames))
	for _, name := range categoryNames {
		inputs = append(inputs, services.CategoryInput{Name: name, Description: faker.Sentence()})
	}
	return inputs
}

func ProductFaker(categoryID string) services.ProductInput {
	return services.ProductInput{
		Name:        title(faker.Word()) + " " + title(faker.Word()),
		CategoryID:  categoryID,
		Price:       decimal.NewFromFloat(fakePrice()),
		Stock:       rand.Intn(40) + 1,
		Description: faker.Sentence(),
	}
}

func CustomerFaker() services.CustomerInput {
	addr := faker.GetRealAddress()
	return services.CustomerInput{
		Name:    faker.FirstName() + " " + faker.LastName(),
		Phone:   fakePhone(),
		Address: addr.Address + ", " + addr.City,
	}
}

func SupplierFaker() services.SupplierInput {
	addr := faker.GetRealAddress()
	return services.SupplierInput{
		Name:          "PT " + title(faker.Word()) + " " + title(faker.Word()),
		ContactPerson: faker.FirstName() + " " + faker.LastName(),
		Phone:         fakePhone(),
		Email:         faker.Email(),
		Address:       addr.Address + ", " + addr.City,
	}
}

// fakePrice returns a price between 1.000 and 100.000 in steps of 500.
func fakePrice() float64 {
	return precision(1000+rand.Float64()*99000, 500)
}

func precision(val float64, step float64) float64 {
	return math.Round(val/step) * step
}

// fakePhone produces an Indonesian mobile number.
func fakePhone() string {
	return fmt.Sprintf("+62812%08d", rand.Intn(100000000))
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
