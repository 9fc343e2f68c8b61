package batch

import (
	"sync"

	"FotaClientv2/pkg/fusapi"
)

type ResolveJob struct {
	Model  string
	Region string
}

type ResolveOutcome struct {
	Job       ResolveJob
	Info      fusapi.VersionInfo
	Succeeded bool
	Err       error
}

type ResolveWorker struct {
	Id          int
	Client      *fusapi.Client
	InputQueue  chan ResolveJob
	OutputQueue chan ResolveOutcome
	wg          *sync.WaitGroup
}

type Resolver struct {
	ThreadCount int
	Client      *fusapi.Client
	InputQueue  chan ResolveJob
	OutputQueue chan ResolveOutcome
	Workers     []*ResolveWorker
	wg          *sync.WaitGroup
}
