// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"fmt"
	"math"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/cosmicsignature/engine/builtin"
	"github.com/cosmicsignature/engine/cosmic"
	"github.com/cosmicsignature/engine/logdb"
)

type LogMeta struct {
	BlockID        cosmic.Bytes32 `json:"blockID"`
	BlockNumber    uint32         `json:"blockNumber"`
	BlockTimestamp uint64         `json:"blockTimestamp"`
	TxID           cosmic.Bytes32 `json:"txID"`
	TxOrigin       cosmic.Address `json:"txOrigin"`
	Method         string         `json:"method"`
}

// Decoded is an event resolved against the builtin contract ABIs.
type Decoded struct {
	Contract string         `json:"contract"`
	Event    string         `json:"event"`
	Args     map[string]any `json:"args"`
}

// FilteredEvent only comes from one contract
type FilteredEvent struct {
	Address cosmic.Address    `json:"address"`
	Topics  []*cosmic.Bytes32 `json:"topics"`
	Data    string            `json:"data"`
	Decoded *Decoded          `json:"decoded,omitempty"`
	Meta    LogMeta           `json:"meta"`
}

// ConvertEvent converts a logdb.Event into the json format.
func ConvertEvent(event *logdb.Event) *FilteredEvent {
	fe := &FilteredEvent{
		Address: event.Address,
		Data:    hexutil.Encode(event.Data),
		Meta: LogMeta{
			BlockID:        event.BlockID,
			BlockNumber:    event.BlockNumber,
			BlockTimestamp: event.BlockTime,
			TxID:           event.TxID,
			TxOrigin:       event.TxOrigin,
			Method:         event.Method,
		},
	}
	fe.Topics = make([]*cosmic.Bytes32, 0)
	topics := make([]cosmic.Bytes32, 0, len(event.Topics))
	for i := range event.Topics {
		if event.Topics[i] != nil {
			fe.Topics = append(fe.Topics, event.Topics[i])
			topics = append(topics, *event.Topics[i])
		}
	}
	fe.Decoded = Decode(event.Address, topics, event.Data)
	return fe
}

// Decode resolves a builtin contract log. It returns nil for unknown logs.
func Decode(addr cosmic.Address, topics []cosmic.Bytes32, data []byte) *Decoded {
	if len(topics) == 0 {
		return nil
	}
	ev, contract, ok := builtin.EventByID(addr, topics[0])
	if !ok {
		return nil
	}
	args, err := ev.DecodeMap(topics, data)
	if err != nil {
		return nil
	}
	return &Decoded{Contract: contract, Event: ev.Name(), Args: args}
}

type TopicSet struct {
	Topic0 *cosmic.Bytes32 `json:"topic0"`
	Topic1 *cosmic.Bytes32 `json:"topic1"`
	Topic2 *cosmic.Bytes32 `json:"topic2"`
	Topic3 *cosmic.Bytes32 `json:"topic3"`
	Topic4 *cosmic.Bytes32 `json:"topic4"`
}

type EventCriteria struct {
	Address *cosmic.Address `json:"address"`
	TopicSet
}

type Range struct {
	Unit logdb.RangeType `json:"unit"`
	From *uint64         `json:"from,omitempty"`
	To   *uint64         `json:"to,omitempty"`
}

type Options struct {
	Offset uint64 `json:"offset,omitempty"`
	Limit  uint64 `json:"limit,omitempty"`
}

type EventFilter struct {
	CriteriaSet []*EventCriteria `json:"criteriaSet"`
	Range       *Range           `json:"range"`
	Options     *Options         `json:"options"`
	Order       logdb.Order      `json:"order"`
}

func convertRange(r *Range) (*logdb.Range, error) {
	if r == nil {
		return nil, nil
	}
	out := &logdb.Range{Unit: r.Unit, To: math.MaxInt64}
	switch r.Unit {
	case logdb.Block, logdb.Time:
	case "":
		out.Unit = logdb.Block
	default:
		return nil, fmt.Errorf("unknown range unit %q", r.Unit)
	}
	if r.From != nil {
		out.From = *r.From
	}
	if r.To != nil {
		out.To = *r.To
	}
	if out.From > math.MaxInt64 || out.To > math.MaxInt64 {
		return nil, fmt.Errorf("range exceeds the maximum allowed value of %d", int64(math.MaxInt64))
	}
	return out, nil
}

// ConvertEventFilter converts the json filter into a logdb query.
func ConvertEventFilter(filter *EventFilter) (*logdb.EventFilter, error) {
	rng, err := convertRange(filter.Range)
	if err != nil {
		return nil, err
	}
	f := &logdb.EventFilter{
		Range: rng,
		Order: filter.Order,
	}
	if filter.Options != nil {
		f.Options = &logdb.Options{
			Offset: filter.Options.Offset,
			Limit:  filter.Options.Limit,
		}
	}
	if len(filter.CriteriaSet) > 0 {
		f.CriteriaSet = make([]*logdb.EventCriteria, len(filter.CriteriaSet))
		for i, c := range filter.CriteriaSet {
			f.CriteriaSet[i] = &logdb.EventCriteria{
				Address: c.Address,
				Topics: [5]*cosmic.Bytes32{
					c.Topic0,
					c.Topic1,
					c.Topic2,
					c.Topic3,
					c.Topic4,
				},
			}
		}
	}
	return f, nil
}
