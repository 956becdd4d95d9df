package model

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// QuantityTable 单次求解传入的逐项数量（订单量或承诺量）
// ByPN 按零件号对齐（忽略大小写），Positional 按行序对齐，二者都为空时沿用输入表的值
type QuantityTable struct {
	ByPN       map[string]int `json:"byPn,omitempty"`
	Positional []int          `json:"positional,omitempty"`
}

// IsEmpty 是否未提供任何数量
func (q QuantityTable) IsEmpty() bool {
	return len(q.ByPN) == 0 && q.Positional == nil
}

// FoldPN 零件号归一化，用于按标识对齐
// Caser 有状态，不能跨 goroutine 共享，每次新建
func FoldPN(pn string) string {
	return cases.Fold().String(strings.TrimSpace(pn))
}

// Apply 将数量写入 items，set 负责写入具体字段
func (q QuantityTable) Apply(items []Item, set func(it *Item, qty int)) error {
	if q.Positional != nil {
		if len(q.Positional) != len(items) {
			return fmt.Errorf("%w: got %d, want %d", ErrQuantityLength, len(q.Positional), len(items))
		}
		for i := range items {
			set(&items[i], q.Positional[i])
		}
	}

	if len(q.ByPN) == 0 {
		return nil
	}

	index := make(map[string]int, len(items))
	for i, it := range items {
		key := FoldPN(it.PN)
		if j, ok := index[key]; ok {
			return fmt.Errorf("%w: %s and %s", ErrAmbiguousPN, items[j].PN, it.PN)
		}
		index[key] = i
	}
	for pn, qty := range q.ByPN {
		i, ok := index[FoldPN(pn)]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownPN, pn)
		}
		set(&items[i], qty)
	}
	return nil
}
