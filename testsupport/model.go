/*
 * Licensed to the Apache Software Foundation (ASF) under one or more
 * contributor license agreements. See the NOTICE file distributed with
 * this work for additional information regarding copyright ownership.
 * The ASF licenses this file to You under the Apache License, Version 2.0
 * (the "License"); you may not use this file except in compliance with
 * the License. You may obtain a copy of the License at
 *
 *    http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package testsupport

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/jackc/pgx/v5/pgtype"
)

// Demo model shared by the command line demo and the mapping tests.
// The types deliberately cover nested records, repeated fields, tag
// renames and all scalar column kinds.

type Address struct {
	Street     string `bigquery:"street"`
	City       string `bigquery:"city"`
	PostalCode string `bigquery:"postal_code"`
}

type User struct {
	Id         int64      `bigquery:"id"`
	Name       string     `bigquery:"name"`
	Email      string     `bigquery:"email"`
	Active     bool       `bigquery:"active"`
	SignupDate civil.Date `bigquery:"signup_date"`
	LastSeen   time.Time  `bigquery:"last_seen"`
	Addresses  []Address  `bigquery:"addresses"`
	Tags       []string   `bigquery:"tags"`
}

type InventoryItem struct {
	Sku       string         `bigquery:"sku"`
	Name      string         `bigquery:"name"`
	Quantity  int64          `bigquery:"quantity"`
	UnitPrice pgtype.Numeric `bigquery:"unit_price"`
	Restocked time.Time      `bigquery:"restocked"`
	Warehouse *Address       `bigquery:"warehouse"`
}

type AllTypes struct {
	IntValue       int64          `bigquery:"int_value"`
	FloatValue     float64        `bigquery:"float_value"`
	BoolValue      bool           `bigquery:"bool_value"`
	StringValue    string         `bigquery:"string_value"`
	NumericValue   pgtype.Numeric `bigquery:"numeric_value"`
	DateValue      civil.Date     `bigquery:"date_value"`
	TimeValue      civil.Time     `bigquery:"time_value"`
	DateTimeValue  civil.DateTime `bigquery:"datetime_value"`
	TimestampValue time.Time      `bigquery:"timestamp_value"`
}

// SampleUsers returns a deterministic set of demo users. The values
// stay stable so round trip assertions can compare them literally.
func SampleUsers() []User {
	return []User{
		{
			Id:         1,
			Name:       "Ada Lovelace",
			Email:      "ada@example.com",
			Active:     true,
			SignupDate: civil.Date{Year: 2023, Month: time.March, Day: 14},
			LastSeen:   time.Date(2023, time.December, 25, 10, 15, 30, 0, time.UTC),
			Addresses: []Address{
				{Street: "12 Analytical Way", City: "London", PostalCode: "EC1A"},
			},
			Tags: []string{"admin", "early-adopter"},
		},
		{
			Id:         2,
			Name:       "Grace Hopper",
			Email:      "grace@example.com",
			Active:     false,
			SignupDate: civil.Date{Year: 2024, Month: time.January, Day: 2},
			LastSeen:   time.Date(2024, time.February, 29, 23, 59, 59, 0, time.UTC),
			Addresses: []Address{
				{Street: "7 Compiler Court", City: "Arlington", PostalCode: "22201"},
				{Street: "1 Harbor View", City: "New York", PostalCode: "10004"},
			},
			Tags: []string{"navy"},
		},
	}
}

// SampleInventory returns deterministic demo inventory items.
func SampleInventory() []InventoryItem {
	return []InventoryItem{
		{
			Sku:       "CBL-USB-C-2M",
			Name:      "USB-C cable, 2m",
			Quantity:  540,
			UnitPrice: Numeric("12.95"),
			Restocked: time.Date(2024, time.May, 6, 8, 0, 0, 0, time.UTC),
			Warehouse: &Address{Street: "4 Dockside Rd", City: "Rotterdam", PostalCode: "3011"},
		},
		{
			Sku:       "KBD-ISO-DE",
			Name:      "Mechanical keyboard, ISO-DE",
			Quantity:  23,
			UnitPrice: Numeric("89.00"),
			Restocked: time.Date(2024, time.April, 19, 14, 30, 0, 0, time.UTC),
		},
	}
}
