// Package monitoring turns a running simulation into a small web server, so
// the network's state can be inspected and the run paused or resumed from
// outside the process.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"sync"
	"time"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/dendra-sim/dendra/sim"
)

// Monitor serves a network's state over HTTP and allows external control of
// the simulation.
type Monitor struct {
	network    *sim.Network
	portNumber int
	openInWeb  bool

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a Monitor. The DENDRA_MONITOR_PORT environment
// variable, possibly from a .env file, presets the port; WithPortNumber
// overrides it.
func NewMonitor() *Monitor {
	m := &Monitor{}

	_ = godotenv.Load()
	if portStr := os.Getenv("DENDRA_MONITOR_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			m.portNumber = port
		}
	}
	if os.Getenv("DENDRA_MONITOR_OPEN") == "true" {
		m.openInWeb = true
	}

	return m
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n",
			portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterNetwork registers the network being simulated.
func (m *Monitor) RegisterNetwork(net *sim.Network) {
	m.network = net
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar from the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars)-1)
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// StartServer starts the monitor as a web server.
func (m *Monitor) StartServer() {
	r := mux.NewRouter()

	r.HandleFunc("/api/pause", m.pauseNetwork)
	r.HandleFunc("/api/continue", m.continueNetwork)
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/run/{seconds}", m.run)
	r.HandleFunc("/api/list_units", m.listUnits)
	r.HandleFunc("/api/unit/{id}", m.unitDetails)
	r.HandleFunc("/api/unit/{id}/requirements", m.unitRequirements)
	r.HandleFunc("/api/plant/{id}", m.plantDetails)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	http.Handle("/", r)

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", url)

	if m.openInWeb {
		_ = browser.OpenURL(url)
	}

	go func() {
		err = http.Serve(listener, nil)
		dieOnErr(err)
	}()
}

func (m *Monitor) pauseNetwork(w http.ResponseWriter, _ *http.Request) {
	m.network.Pause()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) continueNetwork(w http.ResponseWriter, _ *http.Request) {
	m.network.Continue()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprintf(w, "{\"now\":%.10f}", m.network.CurrentTime())
}

func (m *Monitor) run(w http.ResponseWriter, r *http.Request) {
	seconds, err := strconv.ParseFloat(mux.Vars(r)["seconds"], 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "Error: %s", err)
		return
	}

	go func() {
		_, _, _, err := m.network.Run(sim.VTimeInSec(seconds))
		if err != nil {
			panic(err)
		}
	}()
}

func (m *Monitor) listUnits(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprint(w, "[")
	for i := 0; i < m.network.NumUnits(); i++ {
		if i > 0 {
			fmt.Fprint(w, ",")
		}

		u := m.network.Unit(i)
		fmt.Fprintf(w, "{\"id\":%d,\"kind\":\"%s\"}", u.ID(), u.Kind())
	}
	fmt.Fprint(w, "]")
}

func (m *Monitor) unitDetails(w http.ResponseWriter, r *http.Request) {
	u := m.findUnitOr404(w, r)
	if u == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(u)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

func (m *Monitor) unitRequirements(w http.ResponseWriter, r *http.Request) {
	u := m.findUnitOr404(w, r)
	if u == nil {
		return
	}

	fmt.Fprint(w, "[")
	for i, tag := range u.ActiveRequirements() {
		if i > 0 {
			fmt.Fprint(w, ",")
		}
		fmt.Fprintf(w, "\"%s\"", tag)
	}
	fmt.Fprint(w, "]")
}

func (m *Monitor) plantDetails(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id < 0 || id >= m.network.NumPlants() {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte("Plant not found"))
		dieOnErr(err)
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(m.network.Plant(id))
	serializer.SetMaxDepth(1)
	err = serializer.Serialize(w)

	dieOnErr(err)
}

func (m *Monitor) findUnitOr404(
	w http.ResponseWriter,
	r *http.Request,
) *sim.Unit {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id < 0 || id >= m.network.NumUnits() {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte("Unit not found"))
		dieOnErr(err)
		return nil
	}

	return m.network.Unit(id)
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	bytes, err := json.Marshal(m.progressBars)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	proc, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := proc.CPUPercent()
	dieOnErr(err)

	memorySize, err := proc.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	bytes, err := json.Marshal(prof)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
