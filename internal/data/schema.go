package data

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table and column names shared by the repositories.
const (
	urlsTable = "urls"

	urlFieldID          = "id"
	urlFieldShortCode   = "short_code"
	urlFieldOriginalURL = "original_url"
	urlFieldCreatedAt   = "created_at"
	urlFieldExpiresAt   = "expires_at"

	clicksTable = "clicks"

	clickFieldID        = "id"
	clickFieldShortCode = "short_code"
	clickFieldClickedAt = "clicked_at"
	clickFieldReferrer  = "referrer"
	clickFieldUserAgent = "user_agent"
	clickFieldSource    = "source"
	clickFieldIPAddress = "ip_address"
	clickFieldCountry   = "country"
	clickFieldRegion    = "region"
	clickFieldCity      = "city"
	clickFieldLatitude  = "latitude"
	clickFieldLongitude = "longitude"
)

var (
	// URLsColumns holds the columns for the "urls" table.
	URLsColumns = []*schema.Column{
		{Name: urlFieldID, Type: field.TypeInt64, Increment: true},
		{Name: urlFieldShortCode, Type: field.TypeString, Unique: true},
		{Name: urlFieldOriginalURL, Type: field.TypeString, Size: 2147483647},
		{Name: urlFieldCreatedAt, Type: field.TypeTime},
		{Name: urlFieldExpiresAt, Type: field.TypeTime},
	}
	// URLsTable holds the schema information for the "urls" table.
	URLsTable = &schema.Table{
		Name:       urlsTable,
		Columns:    URLsColumns,
		PrimaryKey: []*schema.Column{URLsColumns[0]},
	}
	// ClicksColumns holds the columns for the "clicks" table.
	ClicksColumns = []*schema.Column{
		{Name: clickFieldID, Type: field.TypeInt64, Increment: true},
		{Name: clickFieldShortCode, Type: field.TypeString},
		{Name: clickFieldClickedAt, Type: field.TypeTime},
		{Name: clickFieldReferrer, Type: field.TypeString, Size: 2147483647},
		{Name: clickFieldUserAgent, Type: field.TypeString, Size: 2147483647},
		{Name: clickFieldSource, Type: field.TypeString, Size: 2147483647},
		{Name: clickFieldIPAddress, Type: field.TypeString, Default: ""},
		{Name: clickFieldCountry, Type: field.TypeString},
		{Name: clickFieldRegion, Type: field.TypeString},
		{Name: clickFieldCity, Type: field.TypeString},
		{Name: clickFieldLatitude, Type: field.TypeFloat64, Nullable: true},
		{Name: clickFieldLongitude, Type: field.TypeFloat64, Nullable: true},
	}
	// ClicksTable holds the schema information for the "clicks" table.
	ClicksTable = &schema.Table{
		Name:       clicksTable,
		Columns:    ClicksColumns,
		PrimaryKey: []*schema.Column{ClicksColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "click_short_code_clicked_at",
				Unique:  false,
				Columns: []*schema.Column{ClicksColumns[1], ClicksColumns[2]},
			},
		},
	}
	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		URLsTable,
		ClicksTable,
	}
)
