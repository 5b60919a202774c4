package solver

import (
	"container/heap"

	"github.com/beka-birhanu/mazeworks/maze"
)

// depthFirst follows the first open passage until stuck, then retreats.
type depthFirst struct {
	*search
	stack   []maze.CellPosition
	started bool
}

func (d *depthFirst) step() ([]maze.Change, bool, outcome) {
	if !d.started {
		d.started = true
		d.grid.Visit(d.start, maze.Visited, 0, maze.NoParent)
		d.stack = append(d.stack, d.start)
		d.expanded++
		changes := []maze.Change{{Pos: d.start, State: maze.Visited}}
		if d.start == d.goal {
			return changes, false, found
		}
		return changes, false, searching
	}
	if len(d.stack) == 0 {
		return nil, false, exhausted
	}

	top := d.stack[len(d.stack)-1]
	topCell := d.cell(top)
	for _, n := range d.grid.Passages(top) {
		if d.cell(n).State != maze.Unvisited {
			continue
		}
		d.grid.Visit(n, maze.Visited, topCell.Cost+1, d.grid.Index(top))
		d.stack = append(d.stack, n)
		d.expanded++
		changes := []maze.Change{{Pos: n, State: maze.Visited}}
		if n == d.goal {
			return changes, false, found
		}
		return changes, false, searching
	}

	d.stack = d.stack[:len(d.stack)-1]
	d.grid.Tag(top, maze.Backtracked)
	return []maze.Change{{Pos: top, State: maze.Backtracked}}, true, searching
}

// breadthFirst expands cells in discovery order.
type breadthFirst struct {
	*search
	queue   []maze.CellPosition
	started bool
}

func (b *breadthFirst) step() ([]maze.Change, bool, outcome) {
	if !b.started {
		b.started = true
		b.grid.Visit(b.start, maze.Frontier, 0, maze.NoParent)
		b.queue = append(b.queue, b.start)
		return []maze.Change{{Pos: b.start, State: maze.Frontier}}, false, searching
	}
	if len(b.queue) == 0 {
		return nil, false, exhausted
	}

	cur := b.queue[0]
	b.queue = b.queue[1:]
	b.grid.Tag(cur, maze.Visited)
	b.expanded++
	changes := []maze.Change{{Pos: cur, State: maze.Visited}}
	if cur == b.goal {
		return changes, false, found
	}

	curCost := b.cell(cur).Cost
	for _, n := range b.grid.Passages(cur) {
		if b.cell(n).State != maze.Unvisited {
			continue
		}
		b.grid.Visit(n, maze.Frontier, curCost+1, b.grid.Index(cur))
		b.queue = append(b.queue, n)
		changes = append(changes, maze.Change{Pos: n, State: maze.Frontier})
	}
	return changes, false, searching
}

// bestFirst covers Dijkstra (no heuristic), greedy best-first (heuristic only)
// and A* (cost plus heuristic).
type bestFirst struct {
	*search
	heuristic  Heuristic
	withCost   bool
	openSet    priorityQueue
	openSetMap map[int]*queueItem
	closedSet  []bool
	seq        int
	started    bool
}

func newBestFirst(s *search, heuristic Heuristic, withCost bool) *bestFirst {
	b := &bestFirst{
		search:     s,
		heuristic:  heuristic,
		withCost:   withCost,
		openSet:    make(priorityQueue, 0),
		openSetMap: make(map[int]*queueItem),
		closedSet:  make([]bool, s.grid.Len()),
	}
	heap.Init(&b.openSet)
	return b
}

func (b *bestFirst) priority(pos maze.CellPosition, gScore float64) float64 {
	p := 0.0
	if b.withCost {
		p += gScore
	}
	if b.heuristic != nil {
		p += b.heuristic(pos, b.goal)
	}
	return p
}

func (b *bestFirst) push(pos maze.CellPosition, gScore float64) {
	item := &queueItem{
		Index:    b.grid.Index(pos),
		GScore:   gScore,
		Priority: b.priority(pos, gScore),
		Seq:      b.seq,
	}
	b.seq++
	heap.Push(&b.openSet, item)
	b.openSetMap[item.Index] = item
}

func (b *bestFirst) step() ([]maze.Change, bool, outcome) {
	if !b.started {
		b.started = true
		b.grid.Visit(b.start, maze.Frontier, 0, maze.NoParent)
		b.push(b.start, 0)
		return []maze.Change{{Pos: b.start, State: maze.Frontier}}, false, searching
	}
	if b.openSet.Len() == 0 {
		return nil, false, exhausted
	}

	currentItem := heap.Pop(&b.openSet).(*queueItem)
	delete(b.openSetMap, currentItem.Index)
	b.closedSet[currentItem.Index] = true
	current := b.grid.Position(currentItem.Index)
	b.grid.Tag(current, maze.Visited)
	b.expanded++
	changes := []maze.Change{{Pos: current, State: maze.Visited}}
	if current == b.goal {
		return changes, false, found
	}

	for _, n := range b.grid.Passages(current) {
		nIdx := b.grid.Index(n)
		if b.closedSet[nIdx] {
			continue
		}
		tentativeG := currentItem.GScore + 1
		item, inOpen := b.openSetMap[nIdx]
		switch {
		case !inOpen:
			b.grid.Visit(n, maze.Frontier, tentativeG, currentItem.Index)
			b.push(n, tentativeG)
		case b.withCost && tentativeG < item.GScore:
			// relaxation keeps the original discovery order for tie-breaks
			item.GScore = tentativeG
			item.Priority = b.priority(n, tentativeG)
			heap.Fix(&b.openSet, item.IndexInQueue)
			b.grid.Visit(n, maze.Frontier, tentativeG, currentItem.Index)
		default:
			continue
		}
		changes = append(changes, maze.Change{Pos: n, State: maze.Frontier})
	}
	return changes, false, searching
}
