// Package seed holds the demo records written the first time a collection
// key is missing. Timestamps are relative to the supplied clock reading so a
// reseed always looks recent.
package seed

import (
	"time"

	"github.com/MrJamesThe3rd/mechanico/internal/entity"
)

const day = 24 * time.Hour

// Demo credentials.
const (
	AdminEmail            = "admin@mechanico.ir"
	AdminPassword         = "admin123"
	ProviderEmail         = "mechanic@mechanico.ir"
	ProviderPassword      = "mechanic123"
	CustomerEmail         = "customer@mechanico.ir"
	CustomerPassword      = "customer123"
	PendingProviderEmail  = "mechanic2@mechanico.ir"
	PendingProviderPasswd = "mechanic123"
)

// Set is one full demo dataset.
type Set struct {
	Users        []entity.User
	Services     []entity.Service
	Vehicles     []entity.Vehicle
	Bookings     []entity.Booking
	Reviews      []entity.Review
	Invoices     []entity.Invoice
	Expenses     []entity.Expense
	Transactions []entity.Transaction
	Employees    []entity.Employee
	Inventory    []entity.InventoryItem
}

func Default(now time.Time) Set {
	return Set{
		Users:        Users(now),
		Services:     Services(),
		Vehicles:     Vehicles(),
		Bookings:     Bookings(now),
		Reviews:      Reviews(now),
		Invoices:     Invoices(now),
		Expenses:     Expenses(now),
		Transactions: []entity.Transaction{},
		Employees:    Employees(),
		Inventory:    Inventory(now),
	}
}

func Users(now time.Time) []entity.User {
	return []entity.User{
		{
			ID:         "1",
			Email:      AdminEmail,
			Password:   AdminPassword,
			FullName:   "مدیر سیستم",
			Role:       entity.RoleAdmin,
			Phone:      "09121234567",
			IsVerified: true,
			IsApproved: true,
			CreatedAt:  now,
		},
		{
			ID:         "2",
			Email:      ProviderEmail,
			Password:   ProviderPassword,
			FullName:   "علی محمدی",
			Role:       entity.RoleProvider,
			Phone:      "09127654321",
			IsVerified: true,
			IsApproved: true,
			CreatedAt:  now,
		},
		{
			ID:         "3",
			Email:      CustomerEmail,
			Password:   CustomerPassword,
			FullName:   "زهرا احمدی",
			Role:       entity.RoleCustomer,
			Phone:      "09139876543",
			IsVerified: true,
			IsApproved: true,
			CreatedAt:  now,
		},
		{
			ID:         "4",
			Email:      PendingProviderEmail,
			Password:   PendingProviderPasswd,
			FullName:   "حسین رضایی",
			Role:       entity.RoleProvider,
			Phone:      "09151234567",
			IsVerified: true,
			IsApproved: false,
			CreatedAt:  now,
		},
	}
}

func Services() []entity.Service {
	return []entity.Service{
		{ID: "1", Name: "تعویض روغن موتور", Category: "mechanical", Description: "تعویض روغن و فیلتر موتور با قطعات اصلی", BasePrice: 850000, Duration: 45, Icon: "🔧"},
		{ID: "2", Name: "بالانس و رگلاژ چرخ", Category: "tire", Description: "بالانس و رگلاژ چهار چرخ خودرو", BasePrice: 450000, Duration: 30, Icon: "⚙️"},
		{ID: "3", Name: "سرویس کامل خودرو", Category: "maintenance", Description: "سرویس دوره‌ای شامل تعویض روغن، فیلترها و بررسی کامل", BasePrice: 1500000, Duration: 120, Icon: "🛠️"},
		{ID: "4", Name: "شست‌وشوی کامل", Category: "wash", Description: "شست‌وشوی داخل و خارج با واکس و پولیش", BasePrice: 350000, Duration: 60, Icon: "🧼"},
		{ID: "5", Name: "تعمیر سیستم ترمز", Category: "brake", Description: "بررسی و تعویض لنت و دیسک ترمز", BasePrice: 1200000, Duration: 90, Icon: "🛑"},
		{ID: "6", Name: "باتری‌سازی و شارژ", Category: "electrical", Description: "تست و تعویض باتری خودرو", BasePrice: 650000, Duration: 30, Icon: "🔋"},
	}
}

func Vehicles() []entity.Vehicle {
	return []entity.Vehicle{
		{ID: "1", OwnerID: "3", Make: "ایران خودرو", Model: "پژو ۲۰۶", Year: 1399, LicensePlate: "۱۲ ب ۳۴۵ ایران ۶۷", Color: "سفید", Mileage: 45000},
		{ID: "2", OwnerID: "3", Make: "سایپا", Model: "تیبا", Year: 1400, LicensePlate: "۲۳ د ۴۵۶ ایران ۸۹", Color: "نقره‌ای", Mileage: 28000},
	}
}

func Bookings(now time.Time) []entity.Booking {
	return []entity.Booking{
		{
			ID:          "1",
			CustomerID:  "3",
			ProviderID:  "2",
			VehicleID:   "1",
			ServiceID:   "1",
			ScheduledAt: now.Add(2 * day),
			Status:      entity.BookingConfirmed,
			Price:       850000,
			Notes:       "لطفاً از روغن موبیل ۱ استفاده شود",
			CreatedAt:   now.Add(-3 * day),
		},
		{
			ID:          "2",
			CustomerID:  "3",
			ProviderID:  "2",
			VehicleID:   "1",
			ServiceID:   "3",
			ScheduledAt: now.Add(-30 * day),
			Status:      entity.BookingCompleted,
			Price:       1500000,
			CreatedAt:   now.Add(-35 * day),
		},
		{
			ID:          "3",
			CustomerID:  "3",
			ProviderID:  "2",
			VehicleID:   "2",
			ServiceID:   "4",
			ScheduledAt: now.Add(-10 * day),
			Status:      entity.BookingCompleted,
			Price:       350000,
			CreatedAt:   now.Add(-15 * day),
		},
		{
			ID:          "4",
			CustomerID:  "3",
			ProviderID:  "4",
			VehicleID:   "1",
			ServiceID:   "2",
			ScheduledAt: now.Add(5 * day),
			Status:      entity.BookingPending,
			Price:       450000,
			CreatedAt:   now,
		},
	}
}

func Reviews(now time.Time) []entity.Review {
	return []entity.Review{
		{ID: "1", BookingID: "2", CustomerID: "3", ProviderID: "2", Rating: 5, Comment: "سرویس عالی و دقیق. کاملاً راضی هستم.", CreatedAt: now.Add(-28 * day)},
		{ID: "2", BookingID: "3", CustomerID: "3", ProviderID: "2", Rating: 4, Comment: "خوب بود اما زمان انتظار کمی طولانی شد.", CreatedAt: now.Add(-8 * day)},
	}
}

// Invoices derives the amount fields from the items so the seeds always agree
// with ComputeInvoiceTotals.
func Invoices(now time.Time) []entity.Invoice {
	paidItems := []entity.InvoiceItem{
		entity.NewInvoiceItem("1", "سرویس کامل خودرو", 1, 1500000),
		entity.NewInvoiceItem("2", "روغن موبیل ۱", 4, 150000),
	}
	paid := entity.InvoicePayload{
		ID:            "1",
		BookingID:     "2",
		CustomerID:    "3",
		ProviderID:    "2",
		InvoiceNumber: "INV-2024-001",
		Date:          now.Add(-28 * day),
		DueDate:       now.Add(-21 * day),
		Items:         paidItems,
		Status:        entity.InvoicePaid,
		CreatedAt:     now.Add(-28 * day),
	}.WithTotals(entity.ComputeInvoiceTotals(paidItems, entity.DefaultTaxRate, 0))

	sentItems := []entity.InvoiceItem{
		entity.NewInvoiceItem("1", "تعویض روغن موتور", 1, 850000),
	}
	sent := entity.InvoicePayload{
		ID:            "2",
		BookingID:     "1",
		CustomerID:    "3",
		ProviderID:    "2",
		InvoiceNumber: "INV-2024-002",
		Date:          now,
		DueDate:       now.Add(7 * day),
		Items:         sentItems,
		Status:        entity.InvoiceSent,
		CreatedAt:     now,
	}.WithTotals(entity.ComputeInvoiceTotals(sentItems, entity.DefaultTaxRate, 50000))

	return []entity.Invoice{
		entity.NewInvoice(paid, "", now),
		entity.NewInvoice(sent, "", now),
	}
}

func Expenses(now time.Time) []entity.Expense {
	return []entity.Expense{
		{
			ID:            "1",
			Category:      "قطعات",
			Description:   "خرید روغن موتور - ۱۰ عدد",
			Amount:        1200000,
			Date:          now.Add(-15 * day),
			PaymentMethod: "نقدی",
			ProviderID:    "2",
			InvoiceNumber: "EXP-001",
			CreatedAt:     now.Add(-15 * day),
		},
		{
			ID:            "2",
			Category:      "اجاره",
			Description:   "اجاره ماهانه تعمیرگاه",
			Amount:        25000000,
			Date:          now.Add(-5 * day),
			PaymentMethod: "چک",
			InvoiceNumber: "EXP-002",
			CreatedAt:     now.Add(-5 * day),
		},
		{
			ID:            "3",
			Category:      "برق و آب",
			Description:   "قبض برق و آب",
			Amount:        3500000,
			Date:          now.Add(-10 * day),
			PaymentMethod: "کارت بانکی",
			InvoiceNumber: "EXP-003",
			CreatedAt:     now.Add(-10 * day),
		},
	}
}

func Employees() []entity.Employee {
	return []entity.Employee{
		{
			ID:          "1",
			UserID:      "2",
			Position:    "مکانیک ارشد",
			Department:  "فنی",
			Salary:      45000000,
			HireDate:    time.Date(2022, time.March, 15, 0, 0, 0, 0, time.UTC),
			Skills:      []string{"تعمیرات موتور", "برق خودرو", "سیستم تعلیق"},
			Status:      entity.EmployeeActive,
			Performance: 95,
		},
		{
			ID:          "2",
			UserID:      "4",
			Position:    "مکانیک جونیور",
			Department:  "فنی",
			Salary:      28000000,
			HireDate:    time.Date(2023, time.September, 1, 0, 0, 0, 0, time.UTC),
			Skills:      []string{"تعویض روغن", "بالانس چرخ", "شست‌وشو"},
			Status:      entity.EmployeeActive,
			Performance: 78,
		},
	}
}

func Inventory(now time.Time) []entity.InventoryItem {
	return []entity.InventoryItem{
		{ID: "1", Name: "روغن موتور ۵W-۳۰", Category: "روغنیات", Quantity: 45, MinQuantity: 20, UnitPrice: 180000, Supplier: "شرکت پخش روغن پارس", LastRestocked: now.Add(-7 * day), Location: "قفسه A-۱"},
		{ID: "2", Name: "فیلتر روغن", Category: "فیلتر", Quantity: 15, MinQuantity: 25, UnitPrice: 95000, Supplier: "قطعات یدکی مهر", LastRestocked: now.Add(-20 * day), Location: "قفسه B-۳"},
		{ID: "3", Name: "لنت ترمز جلو", Category: "ترمز", Quantity: 32, MinQuantity: 15, UnitPrice: 450000, Supplier: "پخش قطعات آرین", LastRestocked: now.Add(-12 * day), Location: "قفسه C-۲"},
		{ID: "4", Name: "باتری ۶۰ آمپر", Category: "برقی", Quantity: 8, MinQuantity: 10, UnitPrice: 2800000, Supplier: "شرکت باتری سازی صبا", LastRestocked: now.Add(-30 * day), Location: "انبار اصلی"},
	}
}
