package devserver

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/VersaceXcodes/food-truck-order-delivery-system-q5yqpj-sub001/models"
)

type account struct {
	models.User
	Password string
}

// dataStore is the devserver's in-memory dataset, seeded with demo
// accounts, one truck and its menu.
type dataStore struct {
	mu        sync.Mutex
	accounts  map[string]*account                 // by user id
	trucks    map[string]*models.Truck            // by truck id
	menus     map[string][]models.MenuItem        // by truck id
	addresses map[string][]models.Address         // by user id
	methods   map[string][]models.PaymentMethod   // by user id
	orders    map[string]*models.OrderDetail      // by order id
	orderSeq  int
	addrSeq   int
}

func newDataStore() *dataStore {
	ds := &dataStore{
		accounts:  make(map[string]*account),
		trucks:    make(map[string]*models.Truck),
		menus:     make(map[string][]models.MenuItem),
		addresses: make(map[string][]models.Address),
		methods:   make(map[string][]models.PaymentMethod),
		orders:    make(map[string]*models.OrderDetail),
		orderSeq:  1000,
	}
	ds.seed()
	return ds
}

func (ds *dataStore) seed() {
	ds.accounts["cust-1"] = &account{
		User: models.User{
			ID:    "cust-1",
			Name:  "Dana Customer",
			Email: "customer@example.com",
			Role:  models.RoleCustomer,
		},
		Password: "password",
	}
	ds.accounts["op-1"] = &account{
		User: models.User{
			ID:      "op-1",
			Name:    "Olga Operator",
			Email:   "operator@example.com",
			Role:    models.RoleOperator,
			TruckID: "truck-1",
		},
		Password: "password",
	}

	ds.trucks["truck-1"] = &models.Truck{
		ID:               "truck-1",
		Name:             "Seoul Street Tacos",
		Description:      "Korean-Mexican fusion tacos and bowls",
		CuisineType:      "fusion",
		Latitude:         47.6062,
		Longitude:        -122.3321,
		Online:           true,
		SupportsDelivery: true,
		DeliveryRadiusKm: 5,
		DeliveryFee:      decimal.NewFromFloat(2.50),
		MinimumOrder:     decimal.NewFromInt(15),
		TaxRate:          decimal.NewFromFloat(0.08),
		AvgPrepMinutes:   20,
		OperatingHours:   "11:00-21:00",
		AddressSnippet:   "4th Ave & Pike St",
	}

	ds.menus["truck-1"] = []models.MenuItem{
		{
			ID:        "item-1",
			TruckID:   "truck-1",
			Name:      "Bulgogi Taco",
			BasePrice: decimal.NewFromInt(5),
			Available: true,
			OptionGroups: []models.OptionGroup{
				{
					ID:   "grp-1",
					Name: "Extras",
					Options: []models.Option{
						{ID: "opt-1", Name: "Extra Kimchi", PriceAdjustment: decimal.NewFromInt(1)},
						{ID: "opt-2", Name: "Fried Egg", PriceAdjustment: decimal.NewFromFloat(1.50)},
					},
				},
			},
		},
		{
			ID:        "item-2",
			TruckID:   "truck-1",
			Name:      "Gochujang Bowl",
			BasePrice: decimal.NewFromFloat(9.50),
			Available: true,
		},
	}

	ds.methods["cust-1"] = []models.PaymentMethod{
		{ID: "pm-1", Brand: "visa", Last4: "4242", Token: "tok_seeded_visa"},
	}
}

// nextOrderNumber hands out sequential human-readable numbers.
func (ds *dataStore) nextOrderNumber() string {
	ds.orderSeq++
	return fmt.Sprintf("%d", ds.orderSeq)
}

func (ds *dataStore) nextAddressID() string {
	ds.addrSeq++
	return fmt.Sprintf("addr-%d", ds.addrSeq)
}

// findMenuItem returns the menu item and whether it exists and is
// orderable.
func (ds *dataStore) findMenuItem(truckID, itemID string) (models.MenuItem, bool) {
	for _, item := range ds.menus[truckID] {
		if item.ID == itemID && item.Available {
			return item, true
		}
	}
	return models.MenuItem{}, false
}

func (ds *dataStore) findOption(item models.MenuItem, optionID string) (models.SelectedOption, bool) {
	for _, grp := range item.OptionGroups {
		for _, opt := range grp.Options {
			if opt.ID == optionID {
				return models.SelectedOption{
					OptionID:        opt.ID,
					GroupName:       grp.Name,
					Name:            opt.Name,
					PriceAdjustment: opt.PriceAdjustment,
				}, true
			}
		}
	}
	return models.SelectedOption{}, false
}

func (ds *dataStore) findAccountByEmail(email string) *account {
	for _, acc := range ds.accounts {
		if acc.Email == email {
			return acc
		}
	}
	return nil
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
