package parser

import (
	"testing"
)

const happyPathDump = `
ManuGuildHelper_SavedData =
{
    [5] =
    {
        ["guildName"] = "Dragons",
        ["sales"] =
        {
            [1] =
            {
                ["l"] = "item:1",
                ["b"] = "Bob",
                ["s"] = "Alice",
                ["n"] = 3,
                ["p"] = 900,
                ["ts"] = 1700000000,
            },
        },
    },
}
`

func TestRun_HappyPath(t *testing.T) {
	parser := NewParser()
	sales, err := parser.Run([]byte(happyPathDump))
	if err != nil {
		t.Fatal(err)
	}

	if len(sales) != 1 {
		t.Fatalf("Expected 1 sale, got %d", len(sales))
	}

	sale := sales[0]
	if sale.ItemLink != "item:1" {
		t.Errorf("Expected item link 'item:1', got '%s'", sale.ItemLink)
	}
	if sale.Buyer != "Bob" {
		t.Errorf("Expected buyer 'Bob', got '%s'", sale.Buyer)
	}
	if sale.Seller != "Alice" {
		t.Errorf("Expected seller 'Alice', got '%s'", sale.Seller)
	}
	if sale.Quantity != 3 {
		t.Errorf("Expected quantity 3, got %d", sale.Quantity)
	}
	if sale.Price != 900 {
		t.Errorf("Expected price 900, got %d", sale.Price)
	}
	if sale.SaleTimestamp != 1700000000 {
		t.Errorf("Expected timestamp 1700000000, got %d", sale.SaleTimestamp)
	}
	if sale.DuplicateIndex != 1 {
		t.Errorf("Expected duplicate index 1, got %d", sale.DuplicateIndex)
	}
	if sale.GuildID != 5 {
		t.Errorf("Expected guild ID 5, got %d", sale.GuildID)
	}
	if sale.GuildName != "Dragons" {
		t.Errorf("Expected guild name 'Dragons', got '%s'", sale.GuildName)
	}
}

func TestRun_MissingGuildName(t *testing.T) {
	dump := `
ManuGuildHelper_SavedData =
{
    [42] =
    {
        ["sales"] =
        {
            [1] = { ["l"] = "item:9", ["p"] = 100 },
        },
    },
}
`
	parser := NewParser()
	sales, err := parser.Run([]byte(dump))
	if err != nil {
		t.Fatal(err)
	}

	if len(sales) != 1 {
		t.Fatalf("Expected 1 sale, got %d", len(sales))
	}
	if sales[0].GuildName != "Guild 42" {
		t.Errorf("Expected synthesized guild name 'Guild 42', got '%s'", sales[0].GuildName)
	}
}

func TestRun_DuplicateIndexing(t *testing.T) {
	dump := `
ManuGuildHelper_SavedData =
{
    [1] =
    {
        ["guildName"] = "Traders",
        ["sales"] =
        {
            [1] = { ["l"] = "item:7", ["b"] = "B", ["s"] = "S", ["n"] = 1, ["p"] = 50, ["ts"] = 1700000000 },
            [2] = { ["l"] = "item:7", ["b"] = "B", ["s"] = "S", ["n"] = 1, ["p"] = 50, ["ts"] = 1700000000 },
            [3] = { ["l"] = "item:8", ["b"] = "B", ["s"] = "S", ["n"] = 1, ["p"] = 50, ["ts"] = 1700000000 },
            [4] = { ["l"] = "item:7", ["b"] = "B", ["s"] = "S", ["n"] = 1, ["p"] = 50, ["ts"] = 1700000000 },
        },
    },
}
`
	parser := NewParser()
	sales, err := parser.Run([]byte(dump))
	if err != nil {
		t.Fatal(err)
	}

	if len(sales) != 4 {
		t.Fatalf("Expected 4 sales, got %d", len(sales))
	}

	expected := []int{1, 2, 1, 3}
	for i, want := range expected {
		if sales[i].DuplicateIndex != want {
			t.Errorf("Sale %d: expected duplicate index %d, got %d", i, want, sales[i].DuplicateIndex)
		}
	}

	// Counters must not leak across parse calls
	again, err := parser.Run([]byte(dump))
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range expected {
		if again[i].DuplicateIndex != want {
			t.Errorf("Second run, sale %d: expected duplicate index %d, got %d", i, want, again[i].DuplicateIndex)
		}
	}
}

func TestRun_UnmatchedFieldsStillProduceRecord(t *testing.T) {
	dump := `
ManuGuildHelper_SavedData =
{
    [3] =
    {
        ["guildName"] = "Misfits",
        ["sales"] =
        {
            [1] = { ["unknown"] = "value" },
        },
    },
}
`
	parser := NewParser()
	sales, err := parser.Run([]byte(dump))
	if err != nil {
		t.Fatal(err)
	}

	if len(sales) != 1 {
		t.Fatalf("Expected 1 sale even with no matched fields, got %d", len(sales))
	}
	sale := sales[0]
	if sale.ItemLink != "" || sale.Seller != "" || sale.Buyer != "" {
		t.Error("Expected empty string fields for unmatched patterns")
	}
	if sale.Quantity != 0 || sale.Price != 0 || sale.SaleTimestamp != 0 {
		t.Error("Expected zero numeric fields for unmatched patterns")
	}
	if sale.DuplicateIndex != 1 {
		t.Errorf("Expected duplicate index 1, got %d", sale.DuplicateIndex)
	}
}

func TestRun_MultipleGuilds(t *testing.T) {
	dump := `
ManuGuildHelper_SavedData =
{
    [1] =
    {
        ["guildName"] = "Alpha",
        ["sales"] =
        {
            [1] = { ["l"] = "item:1", ["p"] = 10 },
            [2] = { ["l"] = "item:2", ["p"] = 20 },
        },
    },
    [2] =
    {
        ["guildName"] = "Beta",
        ["sales"] =
        {
            [1] = { ["l"] = "item:3", ["p"] = 30 },
        },
    },
}
`
	parser := NewParser()
	sales, err := parser.Run([]byte(dump))
	if err != nil {
		t.Fatal(err)
	}

	if len(sales) != 3 {
		t.Fatalf("Expected 3 sales, got %d", len(sales))
	}
	if sales[0].GuildName != "Alpha" || sales[1].GuildName != "Alpha" {
		t.Error("Expected first two sales to belong to guild Alpha")
	}
	if sales[2].GuildName != "Beta" {
		t.Errorf("Expected third sale to belong to guild Beta, got '%s'", sales[2].GuildName)
	}
}

func TestRun_MissingAnchor(t *testing.T) {
	parser := NewParser()
	sales, err := parser.Run([]byte(`SomeOtherVariable = { [1] = { } }`))
	if err != nil {
		t.Fatal(err)
	}
	if len(sales) != 0 {
		t.Errorf("Expected no sales without the anchor marker, got %d", len(sales))
	}
}

func TestRun_TruncatedDump(t *testing.T) {
	// Root table never closes; the balanced scan finds nothing usable.
	dump := `ManuGuildHelper_SavedData = { [1] = { ["guildName"] = "Broken"`
	parser := NewParser()
	sales, err := parser.Run([]byte(dump))
	if err != nil {
		t.Fatal(err)
	}
	if len(sales) != 0 {
		t.Errorf("Expected no sales from truncated dump, got %d", len(sales))
	}
}

func TestRun_MalformedEntrySkipped(t *testing.T) {
	// The first entry has no value table; the scan must continue to the
	// well-formed entry that follows it.
	dump := `
ManuGuildHelper_SavedData =
{
    [1] = 7,
    [2] =
    {
        ["guildName"] = "Survivors",
        ["sales"] =
        {
            [1] = { ["l"] = "item:5", ["p"] = 500 },
        },
    },
}
`
	parser := NewParser()
	sales, err := parser.Run([]byte(dump))
	if err != nil {
		t.Fatal(err)
	}

	if len(sales) != 1 {
		t.Fatalf("Expected 1 sale from the well-formed entry, got %d", len(sales))
	}
	if sales[0].GuildName != "Survivors" {
		t.Errorf("Expected guild 'Survivors', got '%s'", sales[0].GuildName)
	}
}

func TestRun_UTF8BOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte(happyPathDump)...)
	parser := NewParser()
	sales, err := parser.Run(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(sales) != 1 {
		t.Fatalf("Expected 1 sale from BOM-prefixed dump, got %d", len(sales))
	}
}
