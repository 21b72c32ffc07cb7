// Copyright (c) 2025 Snowflip
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package catalog is a static knowledge base of Flipside Crypto's curated
// blockchain tables: which domains exist, which tables each one carries, and
// what those tables contain. It is pure in-memory lookup; nothing here talks
// to the warehouse.
package catalog

import (
	"fmt"
	"strings"
)

// Domain is one blockchain's dataset grouping.
type Domain struct {
	Name   string
	Schema string
	Tables []string
}

// Catalog is an immutable catalog of known domains and table descriptions.
// Build one with Default and pass it to consumers; it never mutates after
// construction.
type Catalog struct {
	domains      []Domain
	descriptions map[string]string
}

// Default returns the catalog of Flipside's curated datasets.
func Default() *Catalog {
	evmCore := []string{
		"fact_transactions",
		"fact_blocks",
		"fact_token_transfers",
		"fact_decoded_event_logs",
		"fact_traces",
	}
	return &Catalog{
		domains: []Domain{
			{Name: "ethereum", Schema: "ethereum", Tables: []string{
				"fact_transactions",
				"fact_blocks",
				"fact_token_transfers",
				"fact_decoded_event_logs",
				"fact_traces",
				"dim_contracts",
				"dim_labels",
				"fact_hourly_token_prices",
				"fact_daily_token_prices",
			}},
			{Name: "bitcoin", Schema: "bitcoin", Tables: []string{
				"fact_transactions",
				"fact_blocks",
				"fact_inputs",
				"fact_outputs",
			}},
			{Name: "polygon", Schema: "polygon", Tables: append(append([]string{}, evmCore...),
				"dim_contracts",
				"dim_labels",
			)},
			{Name: "avalanche", Schema: "avalanche", Tables: evmCore},
			{Name: "bsc", Schema: "bsc", Tables: evmCore},
			{Name: "arbitrum", Schema: "arbitrum", Tables: evmCore},
			{Name: "optimism", Schema: "optimism", Tables: evmCore},
			{Name: "solana", Schema: "solana", Tables: []string{
				"fact_transactions",
				"fact_blocks",
				"fact_transfers",
				"fact_events",
			}},
			{Name: "crosschain", Schema: "crosschain", Tables: []string{
				"dim_address_labels",
				"dim_contracts",
				"fact_hourly_token_prices",
				"fact_daily_token_prices",
			}},
		},
		descriptions: map[string]string{
			"fact_transactions":        "Core transaction data with basic transaction details",
			"fact_blocks":              "Block-level data including timestamps and metadata",
			"fact_token_transfers":     "ERC-20/token transfer events",
			"fact_decoded_event_logs":  "Decoded smart contract event logs",
			"fact_traces":              "Internal transaction traces",
			"dim_contracts":            "Contract metadata and information",
			"dim_labels":               "Address labels and classifications",
			"dim_address_labels":       "Address labels and classifications",
			"fact_hourly_token_prices": "Hourly token price data",
			"fact_daily_token_prices":  "Daily token price data",
			"fact_inputs":              "Bitcoin transaction inputs",
			"fact_outputs":             "Bitcoin transaction outputs",
			"fact_transfers":           "Solana transfer data",
			"fact_events":              "Solana event data",
		},
	}
}

// NoDescription is returned by Describe for tables the catalog does not know.
const NoDescription = "No description available"

// Domains returns the canonical catalog listing in its defined order.
func (c *Catalog) Domains() []Domain {
	out := make([]Domain, len(c.domains))
	copy(out, c.domains)
	return out
}

// DomainNames returns all domain names in catalog order.
func (c *Catalog) DomainNames() []string {
	names := make([]string, len(c.domains))
	for i, d := range c.domains {
		names[i] = d.Name
	}
	return names
}

// DomainInfo looks up one domain by name (case-insensitive).
func (c *Catalog) DomainInfo(name string) (Domain, error) {
	name = strings.ToLower(name)
	for _, d := range c.domains {
		if d.Name == name {
			return d, nil
		}
	}
	return Domain{}, fmt.Errorf("unknown domain: %s. Available: %s",
		name, strings.Join(c.DomainNames(), ", "))
}

// Describe returns the fixed description for a known table name, or
// NoDescription. It never fails.
func (c *Catalog) Describe(table string) string {
	if desc, ok := c.descriptions[table]; ok {
		return desc
	}
	return NoDescription
}

// Search finds tables by case-insensitive substring match. A keyword that
// matches a domain name broadens to every table in that domain; otherwise only
// tables whose name contains the keyword are included. Domains with no match
// are omitted. Table lists are de-duplicated and carry no defined order; for
// ordered listings use Domains.
func (c *Catalog) Search(keyword string) map[string][]string {
	keyword = strings.ToLower(keyword)
	results := make(map[string][]string)

	for _, d := range c.domains {
		seen := make(map[string]struct{})
		if strings.Contains(d.Name, keyword) {
			for _, t := range d.Tables {
				seen[t] = struct{}{}
			}
		} else {
			for _, t := range d.Tables {
				if strings.Contains(strings.ToLower(t), keyword) {
					seen[t] = struct{}{}
				}
			}
		}
		if len(seen) == 0 {
			continue
		}
		tables := make([]string, 0, len(seen))
		for t := range seen {
			tables = append(tables, t)
		}
		results[d.Name] = tables
	}
	return results
}

// SuggestQueries returns starter queries for a domain. useCase is one of
// "basic" (or empty), "defi", "nft", "price"; an unknown domain is an error
// while an unknown useCase silently falls back to the basic set.
func (c *Catalog) SuggestQueries(domain, useCase string) ([]string, error) {
	d, err := c.DomainInfo(domain)
	if err != nil {
		return nil, err
	}
	schema := d.Schema

	basic := []string{
		fmt.Sprintf("SELECT * FROM %s.fact_transactions LIMIT 10", schema),
		fmt.Sprintf("SELECT COUNT(*) as total_transactions FROM %s.fact_transactions", schema),
		fmt.Sprintf("SELECT block_timestamp, COUNT(*) as tx_count FROM %s.fact_transactions GROUP BY block_timestamp ORDER BY block_timestamp DESC LIMIT 10", schema),
	}

	switch useCase {
	case "defi":
		return append(basic,
			fmt.Sprintf("SELECT * FROM %s.fact_decoded_event_logs WHERE contract_address = '0x...' LIMIT 10", schema),
			fmt.Sprintf("SELECT event_name, COUNT(*) FROM %s.fact_decoded_event_logs GROUP BY event_name ORDER BY COUNT(*) DESC LIMIT 10", schema),
		), nil
	case "nft":
		return append(basic,
			fmt.Sprintf("SELECT * FROM %s.fact_token_transfers WHERE token_address = '0x...' LIMIT 10", schema),
			fmt.Sprintf("SELECT token_address, COUNT(*) as transfer_count FROM %s.fact_token_transfers GROUP BY token_address ORDER BY transfer_count DESC LIMIT 10", schema),
		), nil
	case "price":
		return append(basic,
			"SELECT * FROM crosschain.fact_hourly_token_prices WHERE token_address = '0x...' ORDER BY hour DESC LIMIT 10",
			"SELECT symbol, AVG(price) as avg_price FROM crosschain.fact_hourly_token_prices WHERE hour >= CURRENT_DATE - 7 GROUP BY symbol ORDER BY avg_price DESC LIMIT 10",
		), nil
	default:
		// Unknown use cases fall back to the basic set; only domains error.
		return basic, nil
	}
}
