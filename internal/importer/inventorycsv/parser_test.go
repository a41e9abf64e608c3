package inventorycsv_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/mechanico/internal/entity"
	"github.com/MrJamesThe3rd/mechanico/internal/importer/inventorycsv"
)

func TestParser_Parse(t *testing.T) {
	type args struct {
		csvContent string
	}

	type testCase struct {
		name    string
		args    args
		wantLen int
		verify  func(t *testing.T, items []entity.InventoryPayload)
		wantErr bool
	}

	tests := []testCase{
		{
			name: "Exported Report",
			args: args{
				csvContent: `id,name,category,quantity,min_quantity,unit_price,supplier,location,last_restocked,low_stock
1,Engine oil 5W-30,Oils,45,20,180000,Pars Oil,A-1,2026-06-07,false
2,Oil filter,Filters,15,25,95000,Mehr Parts,B-3,2026-05-25,true
`,
			},
			wantLen: 2,
			verify: func(t *testing.T, items []entity.InventoryPayload) {
				assert.Equal(t, entity.InventoryPayload{
					Name:        "Engine oil 5W-30",
					Category:    "Oils",
					Quantity:    45,
					MinQuantity: 20,
					UnitPrice:   180000,
					Supplier:    "Pars Oil",
					Location:    "A-1",
				}, items[0])
				assert.Empty(t, items[0].ID)
				assert.Equal(t, 25, items[1].MinQuantity)
			},
		},
		{
			name: "Camel Case Headers",
			args: args{
				csvContent: "name,quantity,minQuantity,unitPrice\nBattery 60Ah,8,10,2800000\n",
			},
			wantLen: 1,
			verify: func(t *testing.T, items []entity.InventoryPayload) {
				assert.Equal(t, 10, items[0].MinQuantity)
				assert.Equal(t, int64(2800000), items[0].UnitPrice)
			},
		},
		{
			name: "Persian Headers With Semicolons",
			args: args{
				csvContent: `گزارش انبار;۱۴۰۵
نام قطعه;دسته‌بندی;موجودی;حداقل موجودی;قیمت واحد;تأمین‌کننده;محل نگهداری
لنت ترمز جلو;ترمز;۳۲;۱۵;۴۵۰٬۰۰۰;پخش قطعات آرین;قفسه C-۲

باتری ۶۰ آمپر;برقی;8;10;2,800,000;شرکت باتری سازی صبا;انبار اصلی
`,
			},
			wantLen: 2,
			verify: func(t *testing.T, items []entity.InventoryPayload) {
				assert.Equal(t, "لنت ترمز جلو", items[0].Name)
				assert.Equal(t, 32, items[0].Quantity)
				assert.Equal(t, 15, items[0].MinQuantity)
				assert.Equal(t, int64(450000), items[0].UnitPrice)
				assert.Equal(t, int64(2800000), items[1].UnitPrice)
				assert.Equal(t, "انبار اصلی", items[1].Location)
			},
		},
		{
			name: "Empty File",
			args: args{
				csvContent: "",
			},
			wantLen: 0,
		},
		{
			name: "Header Only",
			args: args{
				csvContent: "name,quantity",
			},
			wantLen: 0,
		},
		{
			name: "No Header",
			args: args{
				csvContent: "foo,bar\n1,2\n",
			},
			wantErr: true,
		},
		{
			name: "Negative Quantity",
			args: args{
				csvContent: "name,quantity\nfilter,-3\n",
			},
			wantErr: true,
		},
		{
			name: "Fractional Quantity",
			args: args{
				csvContent: "name,quantity\nfilter,1.5\n",
			},
			wantErr: true,
		},
		{
			name: "Missing Name",
			args: args{
				csvContent: "name,quantity\n,3\n",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := inventorycsv.NewParser()
			got, err := parser.Parse(strings.NewReader(tt.args.csvContent))

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Len(t, got, tt.wantLen)

			if tt.verify != nil {
				tt.verify(t, got)
			}
		})
	}
}

func TestParser_ParseWindows1256(t *testing.T) {
	content := "name,category,quantity\nلنت ترمز,ترمز,12\n"

	legacy, err := charmap.Windows1256.NewEncoder().Bytes([]byte(content))
	require.NoError(t, err)

	got, err := inventorycsv.NewParser().Parse(bytes.NewReader(legacy))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "لنت ترمز", got[0].Name)
	assert.Equal(t, 12, got[0].Quantity)
}
