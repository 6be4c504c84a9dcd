package system

import (
	"log"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// memoryShare is the part of available memory frame buffers may occupy.
const memoryShare = 4

// DefaultWorkers подбирает число параллельных обработчиков кадров: по числу
// логических ядер, но так, чтобы буферы кадров размером frameBytes
// поместились в четверть доступной памяти.
func DefaultWorkers(frameBytes int) int {
	n, err := cpu.Counts(true)
	if err != nil || n <= 0 {
		log.Printf("[!] Не удалось определить число ядер: %v", err)
		n = runtime.NumCPU()
	}

	if frameBytes <= 0 {
		return n
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		log.Printf("[!] Не удалось определить объем памяти: %v", err)
		return n
	}
	return limitByMemory(n, vm.Available, frameBytes)
}

// limitByMemory caps workers so that two buffers per worker fit the budget.
func limitByMemory(workers int, available uint64, frameBytes int) int {
	budget := available / memoryShare
	perWorker := uint64(frameBytes) * 2
	if fit := int(budget / perWorker); fit < workers {
		workers = fit
	}
	return max(1, workers)
}
