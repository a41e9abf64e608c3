package collection

// Keys is the persisted layout: one key per collection plus the session key.
type Keys struct {
	Users        string
	Vehicles     string
	Services     string
	Bookings     string
	Reviews      string
	Invoices     string
	Expenses     string
	Transactions string
	Employees    string
	Inventory    string
	CurrentUser  string
}

// PrefixedKeys prepends prefix to every base key name.
func PrefixedKeys(prefix string) Keys {
	return Keys{
		Users:        prefix + "users",
		Vehicles:     prefix + "vehicles",
		Services:     prefix + "services",
		Bookings:     prefix + "bookings",
		Reviews:      prefix + "reviews",
		Invoices:     prefix + "invoices",
		Expenses:     prefix + "expenses",
		Transactions: prefix + "transactions",
		Employees:    prefix + "employees",
		Inventory:    prefix + "inventory",
		CurrentUser:  prefix + "current_user",
	}
}

// All returns every key, session key last.
func (k Keys) All() []string {
	return []string{
		k.Users,
		k.Vehicles,
		k.Services,
		k.Bookings,
		k.Reviews,
		k.Invoices,
		k.Expenses,
		k.Transactions,
		k.Employees,
		k.Inventory,
		k.CurrentUser,
	}
}
