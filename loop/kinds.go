// File: loop/kinds.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Init-time descriptor table binding a handle kind to the capabilities the
// generic state machine needs to know about. Dispatch consults this table;
// kinds are never decorated at runtime.

package loop

import "github.com/momentics/uvbridge/api"

type kindDescriptor struct {
	// fdBacked kinds support Fileno.
	fdBacked bool
	// sockBuffered kinds support send/receive buffer size access.
	sockBuffered bool
}

var handleKinds = map[api.HandleKind]kindDescriptor{}

func registerHandleKind(kind api.HandleKind, desc kindDescriptor) {
	handleKinds[kind] = desc
}

func init() {
	registerHandleKind(api.HandleAsync, kindDescriptor{})
	registerHandleKind(api.HandleCheck, kindDescriptor{})
	registerHandleKind(api.HandleFSEvent, kindDescriptor{})
	registerHandleKind(api.HandleFSPoll, kindDescriptor{})
	registerHandleKind(api.HandleIdle, kindDescriptor{})
	registerHandleKind(api.HandlePipe, kindDescriptor{fdBacked: true, sockBuffered: true})
	registerHandleKind(api.HandlePoll, kindDescriptor{fdBacked: true})
	registerHandleKind(api.HandlePrepare, kindDescriptor{})
	registerHandleKind(api.HandleProcess, kindDescriptor{})
	registerHandleKind(api.HandleSignal, kindDescriptor{})
	registerHandleKind(api.HandleStream, kindDescriptor{fdBacked: true})
	registerHandleKind(api.HandleTCP, kindDescriptor{fdBacked: true, sockBuffered: true})
	registerHandleKind(api.HandleTimer, kindDescriptor{})
	registerHandleKind(api.HandleTTY, kindDescriptor{fdBacked: true})
	registerHandleKind(api.HandleUDP, kindDescriptor{fdBacked: true, sockBuffered: true})
}

func descriptorOf(kind api.HandleKind) kindDescriptor {
	return handleKinds[kind]
}
