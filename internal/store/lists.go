package store

import "todo/internal/service"

func clone(tasks []service.Task) []service.Task {
	out := make([]service.Task, len(tasks))
	copy(out, tasks)
	return out
}

func indexOf(tasks []service.Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func prepend(tasks []service.Task, t service.Task) []service.Task {
	return append([]service.Task{t}, tasks...)
}

// replace overwrites the entry with id in place. Missing ids are ignored.
func replace(tasks []service.Task, id string, t service.Task) {
	if i := indexOf(tasks, id); i >= 0 {
		tasks[i] = t
	}
}

// without returns tasks minus every entry with id.
func without(tasks []service.Task, id string) []service.Task {
	out := tasks[:0:0]
	for _, t := range tasks {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}
