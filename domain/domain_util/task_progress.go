package domain_util

import (
	"sync"
	"sync/atomic"
)

// TaskProgress 批量分析进度
type TaskProgress struct {
	ID             string
	TotalFiles     int32
	ProcessedFiles int32
	FailedFiles    int32
	Mu             sync.Mutex
	Status         string
}

func NewTaskProgress(id string, total int) *TaskProgress {
	return &TaskProgress{ID: id, TotalFiles: int32(total), Status: "running"}
}

func (tp *TaskProgress) MarkProcessed(failed bool) {
	atomic.AddInt32(&tp.ProcessedFiles, 1)
	if failed {
		atomic.AddInt32(&tp.FailedFiles, 1)
	}
}

func (tp *TaskProgress) Processed() int {
	return int(atomic.LoadInt32(&tp.ProcessedFiles))
}

func (tp *TaskProgress) Failed() int {
	return int(atomic.LoadInt32(&tp.FailedFiles))
}

// Finish 设置最终状态
func (tp *TaskProgress) Finish() {
	tp.Mu.Lock()
	defer tp.Mu.Unlock()
	if atomic.LoadInt32(&tp.FailedFiles) > 0 {
		tp.Status = "completed_with_errors"
		return
	}
	tp.Status = "completed"
}

func (tp *TaskProgress) CurrentStatus() string {
	tp.Mu.Lock()
	defer tp.Mu.Unlock()
	return tp.Status
}
