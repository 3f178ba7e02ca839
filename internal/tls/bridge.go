package tls

import (
	"errors"
	"io"
	"sync"
)

// ErrDuplexDestroyed 一端被销毁后，另一端的后续读写返回此错误
var ErrDuplexDestroyed = errors.New("tls: duplex destroyed")

// Duplex 是一个异步的、基于 channel 的双工管道：Source 产出字节块直到
// 被关闭，Errs 传递终止该序列的错误（若有），Sink 消费调用方送来的块
// 序列并在序列结束或出错时返回。
//
// 这是 libp2p 风格的"异步可迭代序列 + 异步消费者"双工（§4.7）在 Go 里的
// 落地：channel 的发送阻塞天然表达 drain 背压，channel 关闭天然表达
// end-of-stream，不需要显式的 drain/end/error 事件类型。
type Duplex struct {
	Source <-chan []byte
	Errs   <-chan error
	Sink   func(<-chan []byte) error
}

// byteDuplex 是 DuplexToByteStream 的产物：一个普通的 io.ReadWriteCloser，
// 可以直接交给 crypto/tls 驱动握手和记录层读写。
type byteDuplex struct {
	out chan []byte // 待送往 Sink 的块，容量即背压窗口

	in     <-chan []byte
	inErrs <-chan error

	readMu  sync.Mutex
	readBuf []byte

	closeOnce sync.Once
	closeCh   chan struct{}
}

// outBufferSize 是 out 通道的容量，即 Write 在阻塞前可以领先 Sink 消费者
// 多少个块；用于让 TestDuplexToByteStreamBackpressure* 系列测试能在有限
// 时间内观察到写侧阻塞。
const outBufferSize = 4

// DuplexToByteStream 实现 StreamBridge 的第一个方向（§4.7）：把一个
// Duplex 适配成一个普通的 io.ReadWriteCloser，供 TLS 引擎直接读写。
//
// 写入立即入队到一个有限容量的 FIFO；一个独立的 goroutine 把它喂给
// d.Sink，超出容量后 Write 阻塞，直至 Sink 消费腾出空间——这就是
// drain-based 背压在阻塞 I/O 模型下的等价物。读取每次从 d.Source 拉取
// 下一个块；源耗尽返回 io.EOF，源出错返回该错误。半开是允许的：读到
// EOF 不会让 Write 失败，Close 之前不会自动销毁另一侧。
func DuplexToByteStream(d Duplex) io.ReadWriteCloser {
	b := &byteDuplex{
		out:     make(chan []byte, outBufferSize),
		in:      d.Source,
		inErrs:  d.Errs,
		closeCh: make(chan struct{}),
	}

	go func() {
		// Sink 的返回值被丢弃；Sink 返回不会关闭本流，此后 Write 在
		// out 写满时阻塞，直至 Close。
		_ = d.Sink(b.out)
	}()

	return b
}

func (b *byteDuplex) Write(p []byte) (int, error) {
	chunk := append([]byte(nil), p...)
	select {
	case b.out <- chunk:
		return len(p), nil
	case <-b.closeCh:
		return 0, ErrDuplexDestroyed
	}
}

func (b *byteDuplex) Read(p []byte) (int, error) {
	b.readMu.Lock()
	defer b.readMu.Unlock()

	for len(b.readBuf) == 0 {
		select {
		case chunk, ok := <-b.in:
			if !ok {
				return 0, io.EOF
			}
			b.readBuf = chunk
		case err, ok := <-b.inErrs:
			if ok && err != nil {
				return 0, err
			}
		case <-b.closeCh:
			return 0, ErrDuplexDestroyed
		}
	}

	n := copy(p, b.readBuf)
	b.readBuf = b.readBuf[n:]
	return n, nil
}

func (b *byteDuplex) Close() error {
	b.closeOnce.Do(func() { close(b.closeCh) })
	return nil
}

// ByteStreamToDuplex 实现 StreamBridge 的反方向：把一个普通的
// io.ReadWriteCloser（比如已完成握手的 *tls.Conn）适配成 Duplex。
//
// source 由一个读取 goroutine 驱动：每次 Read 成功就把拷贝的块送进
// channel，遇到 io.EOF 正常关闭 channel（半开，不是错误），遇到其他
// 错误通过 errs 上报并结束。sink 逐个消费传入的块序列写入底层流，
// channel 发送天然提供背压——调用方若不从 sink 的输入 channel 继续
// 发送，说明它正在遵守"写满即等待"的契约；输入序列结束后关闭底层流。
func ByteStreamToDuplex(s io.ReadWriteCloser) Duplex {
	source := make(chan []byte)
	errs := make(chan error, 1)

	go func() {
		defer close(source)
		buf := make([]byte, 32*1024)
		for {
			n, err := s.Read(buf)
			if n > 0 {
				chunk := append([]byte(nil), buf[:n]...)
				source <- chunk
			}
			if err != nil {
				if err != io.EOF {
					errs <- err
				}
				return
			}
		}
	}()

	sink := func(in <-chan []byte) error {
		for chunk := range in {
			if _, err := s.Write(chunk); err != nil {
				_ = s.Close()
				return err
			}
		}
		return s.Close()
	}

	return Duplex{Source: source, Errs: errs, Sink: sink}
}
