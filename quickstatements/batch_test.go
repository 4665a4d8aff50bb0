package quickstatements

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBatchString(t *testing.T) {
	var b Batch
	b.Create()
	b.Label("en", "Hobro")
	b.Description("da", "tidligere jernbanestation i Denmark")
	b.SetWithQualifier("P31", Item("Q4663385"), "S854", String("https://example.org/?a=1&amp;b=2"))
	b.Set("P17", Item("Q35"))
	b.Set("P625", Raw("@56.6/9.8"))

	expected := "CREATE\n" +
		"LAST\tLen\t\"Hobro\"\n" +
		"LAST\tDda\t\"tidligere jernbanestation i Denmark\"\n" +
		"LAST\tP31\tQ4663385\tS854\t\"https://example.org/?a=1&amp;b=2\"\n" +
		"LAST\tP17\tQ35\n" +
		"LAST\tP625\t@56.6/9.8\n"

	require.Equal(t, expected, b.String())
	require.Equal(t, 6, b.Len())
}

func TestValuesStayInTheirColumn(t *testing.T) {
	tests := []struct {
		name     string
		value    Value
		expected string
	}{
		{"tab in string", String("Gl.\tHolte"), `"Gl. Holte"`},
		{"newline in string", String("Aarhus\nH"), `"Aarhus H"`},
		{"crlf in string", String("Aarhus\r\nH"), `"Aarhus H"`},
		{"plain item", Item("Q35"), "Q35"},
		{"raw time", Raw("+1850-00-00T00:00:00Z/9"), "+1850-00-00T00:00:00Z/9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.value.Literal())
		})
	}
}

func TestEmptyBatch(t *testing.T) {
	var b Batch
	require.Equal(t, "", b.String())
	require.Empty(t, b.Lines())
}
