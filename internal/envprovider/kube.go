package envprovider

import (
	"context"
	"fmt"
	"net"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/alexisbeaulieu97/eetest/internal/artifact"
	"github.com/alexisbeaulieu97/eetest/internal/command"
	"github.com/alexisbeaulieu97/eetest/internal/config"
	"github.com/alexisbeaulieu97/eetest/internal/logger"
	"github.com/alexisbeaulieu97/eetest/internal/target"
	"github.com/alexisbeaulieu97/eetest/pkg/diff"
	eeerrors "github.com/alexisbeaulieu97/eetest/pkg/errors"
)

const (
	// KubeconfigMountPath is where the rewritten kubeconfig directory is mounted.
	KubeconfigMountPath = "/.kube"
	// KubeconfigVar tells kubernetes.core modules which kubeconfig to use.
	KubeconfigVar = "K8S_AUTH_KUBECONFIG"
	// APIServerPort is the secure port of the cluster API server.
	APIServerPort = 6443
	// ContainerNetwork is the docker network kind attaches its nodes to.
	ContainerNetwork = "kind"
)

// NewClientset builds a clientset from a kubeconfig file. Tests replace it.
var NewClientset = func(kubeconfig string) (kubernetes.Interface, error) {
	restConfig, err := clientcmd.BuildConfigFromFlags("", kubeconfig)
	if err != nil {
		return nil, err
	}
	restConfig.Timeout = 15 * time.Second
	return kubernetes.NewForConfig(restConfig)
}

// Kube points the execution environment at a local cluster by rewriting the
// kubeconfig server to a node's internal address.
type Kube struct {
	kubeconfig string
	targetsDir string
	tempDir    string
	log        *logger.Logger

	rewritten string
	diff      string
}

var _ Provider = (*Kube)(nil)

// NewKube creates the cluster provider. An empty kubeconfig follows the
// kubectl default: the first existing file listed in $KUBECONFIG, otherwise
// ~/.kube/config. The rewritten kubeconfig is placed in tempDir, or the OS
// temp dir when empty.
func NewKube(kubeconfig, targetsDir, tempDir string, log *logger.Logger) *Kube {
	if kubeconfig == "" {
		kubeconfig = clientcmd.NewDefaultClientConfigLoadingRules().GetDefaultFilename()
	}
	return &Kube{kubeconfig: kubeconfig, targetsDir: targetsDir, tempDir: tempDir, log: log}
}

func (p *Kube) Name() string { return "k8s" }

// Prepare discovers the first node's InternalIP and writes the rewritten kubeconfig.
func (p *Kube) Prepare(ctx context.Context) error {
	ip, err := p.discoverInternalIP(ctx)
	if err != nil {
		return err
	}
	p.log.WithFields(map[string]any{"internal_ip": ip}).Info("kubernetes node discovered")

	cfg, err := clientcmd.LoadFromFile(p.kubeconfig)
	if err != nil {
		return eeerrors.NewParseError(p.kubeconfig, 0, err)
	}

	before, err := clientcmd.Write(*cfg)
	if err != nil {
		return fmt.Errorf("encode kubeconfig: %w", err)
	}

	server := "https://" + net.JoinHostPort(ip, strconv.Itoa(APIServerPort))
	for _, cluster := range cfg.Clusters {
		cluster.Server = server
	}

	after, err := clientcmd.Write(*cfg)
	if err != nil {
		return fmt.Errorf("encode kubeconfig: %w", err)
	}

	name, err := writeTemp(p.tempDir, "kubeconfig-*.yaml", after)
	if err != nil {
		return fmt.Errorf("write kubeconfig copy: %w", err)
	}

	p.rewritten = name
	p.diff = diff.Lines(before, after, p.kubeconfig, name)
	added, removed := diff.Changed(p.diff)
	p.log.WithFields(map[string]any{
		"path":    name,
		"server":  server,
		"added":   added,
		"removed": removed,
	}).Debug("kubeconfig rewritten\n" + p.diff)
	return nil
}

func (p *Kube) discoverInternalIP(ctx context.Context) (string, error) {
	client, err := NewClientset(p.kubeconfig)
	if err != nil {
		return "", eeerrors.NewDiscoveryError("build client", p.kubeconfig, err)
	}

	nodes, err := client.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return "", eeerrors.NewDiscoveryError("list nodes", "", err)
	}
	if len(nodes.Items) == 0 {
		return "", eeerrors.NewDiscoveryError("list nodes", "cluster reported no nodes", nil)
	}

	node := nodes.Items[0]
	for _, addr := range node.Status.Addresses {
		if addr.Type == corev1.NodeInternalIP {
			return addr.Address, nil
		}
	}

	return "", eeerrors.NewDiscoveryError("internal ip", fmt.Sprintf("node %s has no InternalIP address", node.Name), nil)
}

// RewriteDiff returns the line diff between the loaded and the rewritten kubeconfig.
func (p *Kube) RewriteDiff() string {
	return p.diff
}

// RewrittenPath returns the host path of the rewritten kubeconfig once prepared.
func (p *Kube) RewrittenPath() string {
	return p.rewritten
}

func (p *Kube) mountedKubeconfig() string {
	return path.Join(KubeconfigMountPath, filepath.Base(p.rewritten))
}

func (p *Kube) kubeMount() command.Mount {
	return command.Mount{Source: filepath.Dir(p.rewritten), Target: KubeconfigMountPath, Options: "Z"}
}

// Variables returns nil: cluster targets receive no extra variables.
func (p *Kube) Variables(config.Generated) map[string]any { return nil }

func (p *Kube) PlaybookMode() artifact.Mode { return artifact.ModeRole }

func (p *Kube) Assignments() []command.EnvVar {
	return []command.EnvVar{
		rolesAssignment(),
		{Key: KubeconfigVar, Value: p.mountedKubeconfig()},
	}
}

func (p *Kube) NavigatorMounts() []command.Mount {
	return []command.Mount{rolesMount(p.targetsDir), p.kubeMount()}
}

func (p *Kube) ContainerRun(t target.Target, _ string) command.ContainerRun {
	return command.ContainerRun{
		Network: ContainerNetwork,
		Env:     []command.EnvVar{{Key: KubeconfigVar, Value: p.mountedKubeconfig()}},
		Mounts: []command.Mount{
			{Source: p.targetsDir, Target: "/targets"},
			p.kubeMount(),
		},
		WorkDir: path.Join("/targets", t.Name),
		Command: []string{"./" + target.EntrypointFile},
	}
}

// Cleanup removes the rewritten kubeconfig.
func (p *Kube) Cleanup() error {
	if p.rewritten == "" {
		return nil
	}
	if err := os.Remove(p.rewritten); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove kubeconfig copy: %w", err)
	}
	p.rewritten = ""
	return nil
}

func writeTemp(dir, pattern string, data []byte) (string, error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
