package notify

import "context"

// Notifier envía un mensaje de texto. El canal tiene un límite duro por mensaje;
// quien llama es responsable de partir textos largos.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Nop descarta los mensajes (canal no configurado).
type Nop struct{}

func (Nop) Send(context.Context, string) error { return nil }
