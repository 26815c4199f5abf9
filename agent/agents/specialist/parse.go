package specialist

import (
	"encoding/json"
	"fmt"
	"strings"

	contractx "github.com/proposalkit/rfp-assistant/agent/contract"
)

// stripCodeFence unwraps a ```json ... ``` block if the model added one.
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	s = strings.TrimPrefix(strings.TrimSpace(s), "json")
	return strings.TrimSpace(s)
}

func parseDiagram(raw string) (*contractx.Diagram, error) {
	var diagram contractx.Diagram
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &diagram); err != nil {
		return nil, fmt.Errorf("%w: decode diagram: %v", contractx.ErrSchemaViolation, err)
	}
	if len(diagram.Components) == 0 {
		return nil, fmt.Errorf("%w: diagram has no components", contractx.ErrSchemaViolation)
	}
	for i, c := range diagram.Components {
		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("%w: diagram component %d has no name", contractx.ErrSchemaViolation, i)
		}
	}
	if diagram.Type == "" {
		diagram.Type = "architecture"
	}
	return &diagram, nil
}

func parseCostTable(raw string) (*contractx.CostTable, error) {
	var table contractx.CostTable
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &table); err != nil {
		return nil, fmt.Errorf("%w: decode cost table: %v", contractx.ErrSchemaViolation, err)
	}
	if len(table.Rows) == 0 {
		return nil, fmt.Errorf("%w: cost table has no rows", contractx.ErrSchemaViolation)
	}
	for i, row := range table.Rows {
		if strings.TrimSpace(row.Item) == "" {
			return nil, fmt.Errorf("%w: cost row %d has no item", contractx.ErrSchemaViolation, i)
		}
	}
	return &table, nil
}

func emptyDiagram() *contractx.Diagram {
	return &contractx.Diagram{
		Type:        "architecture",
		Components:  []contractx.DiagramComponent{},
		Description: "Diagram unavailable",
	}
}

func placeholderCostTable() *contractx.CostTable {
	return &contractx.CostTable{
		Rows: []contractx.CostRow{
			{Item: "Unable to generate pricing", Cost: "-"},
		},
	}
}
